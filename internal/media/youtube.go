// Package media builds YouTube URLs for videos.
package media

import (
	"net/url"
	"strings"

	"github.com/ao4646/game-study-academy/internal/database"
)

// ThumbnailURL returns the stored thumbnail, or the predictable i.ytimg.com
// URL for the video ID when none was stored.
func ThumbnailURL(v *database.Video) string {
	if v == nil {
		return ""
	}
	if v.ThumbnailURL != nil && *v.ThumbnailURL != "" {
		return *v.ThumbnailURL
	}
	if v.VideoID == "" {
		return ""
	}
	return "https://i.ytimg.com/vi/" + url.PathEscape(v.VideoID) + "/hqdefault.jpg"
}

// WatchURL returns the youtube.com watch page for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// EmbedURL returns the privacy-enhanced embed URL for a video ID.
func EmbedURL(videoID string) string {
	return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(videoID)
}

// VideoIDFromURL extracts the video ID from watch, short and embed URLs.
func VideoIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
			}
		}
	}
	return ""
}
