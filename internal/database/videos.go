package database

import (
	"database/sql"
	"fmt"
)

const videoColumns = "id, video_id, title, description, channel_name, published_at, thumbnail_url, game_id, created_at"

// UpsertVideo inserts a video or refreshes the metadata of an existing one
// with the same external video ID. Returns the row ID and whether the row is new.
func (db *DB) UpsertVideo(v Video) (int64, bool, error) {
	existing, err := db.GetVideoByVideoID(v.VideoID)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		_, err := db.conn.Exec(
			`UPDATE videos SET title = ?, description = ?, channel_name = ?, published_at = ?,
			thumbnail_url = ?, game_id = ? WHERE id = ?`,
			v.Title, v.Description, v.ChannelName, v.PublishedAt, v.ThumbnailURL, v.GameID, existing.ID,
		)
		if err != nil {
			return 0, false, fmt.Errorf("updating video %s: %w", v.VideoID, err)
		}
		db.logger.Debug("video refreshed", "video_id", v.VideoID, "id", existing.ID)
		return existing.ID, false, nil
	}

	result, err := db.conn.Exec(
		`INSERT INTO videos (video_id, title, description, channel_name, published_at, thumbnail_url, game_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.VideoID, v.Title, v.Description, v.ChannelName, v.PublishedAt, v.ThumbnailURL, v.GameID,
	)
	if err != nil {
		return 0, false, fmt.Errorf("inserting video %s: %w", v.VideoID, err)
	}
	id, err := result.LastInsertId()
	if err == nil {
		db.logger.Debug("video inserted", "video_id", v.VideoID, "id", id)
	}
	return id, true, err
}

// GetVideo returns a video by row ID, or nil if it does not exist.
func (db *DB) GetVideo(id int64) (*Video, error) {
	row := db.conn.QueryRow("SELECT "+videoColumns+" FROM videos WHERE id = ?", id)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetVideoByVideoID returns a video by its YouTube identifier.
func (db *DB) GetVideoByVideoID(videoID string) (*Video, error) {
	row := db.conn.QueryRow("SELECT "+videoColumns+" FROM videos WHERE video_id = ?", videoID)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetVideosByIDs returns the videos with the given row IDs.
func (db *DB) GetVideosByIDs(ids []int64) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	rows, err := db.conn.Query("SELECT "+videoColumns+" FROM videos WHERE id IN ("+in+") ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideos(rows)
}

// GetVideos returns the most recently published videos. limit <= 0 means no limit.
func (db *DB) GetVideos(gameID int64, limit int) ([]Video, error) {
	query := "SELECT " + videoColumns + " FROM videos"
	var args []any
	if gameID != 0 {
		query += " WHERE game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY published_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideos(rows)
}

func scanVideos(rows *sql.Rows) ([]Video, error) {
	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.VideoID, &v.Title, &v.Description, &v.ChannelName,
			&v.PublishedAt, &v.ThumbnailURL, &v.GameID, &v.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func scanVideo(row *sql.Row) (*Video, error) {
	var v Video
	if err := row.Scan(&v.ID, &v.VideoID, &v.Title, &v.Description, &v.ChannelName,
		&v.PublishedAt, &v.ThumbnailURL, &v.GameID, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
