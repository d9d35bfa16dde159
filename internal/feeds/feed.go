// Package feeds syncs uploads from YouTube channel feeds into the videos
// table.
package feeds

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/media"
)

// maxPerFeed matches what YouTube serves per channel feed.
const maxPerFeed = 15

// Entry is one upload parsed from a channel feed.
type Entry struct {
	VideoID      string
	Title        string
	Description  string
	ChannelName  string
	PublishedAt  string // TimestampLayout, UTC
	ThumbnailURL string
}

// Video converts the entry into a row for gameID.
func (e Entry) Video(gameID int64) database.Video {
	v := database.Video{VideoID: e.VideoID, Title: e.Title, GameID: gameID}
	v.Description = optional(e.Description)
	v.ChannelName = optional(e.ChannelName)
	v.PublishedAt = optional(e.PublishedAt)
	v.ThumbnailURL = optional(e.ThumbnailURL)
	return v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Parse reads a channel feed from feedURL.
func Parse(ctx context.Context, parser *gofeed.Parser, feedURL, channelName string) ([]Entry, error) {
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}
	return entries(feed, channelName), nil
}

// ParseString reads a channel feed document.
func ParseString(doc, channelName string) ([]Entry, error) {
	feed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		return nil, err
	}
	return entries(feed, channelName), nil
}

func entries(feed *gofeed.Feed, channelName string) []Entry {
	if channelName == "" {
		channelName = strings.TrimSpace(feed.Title)
	}
	var out []Entry
	for _, item := range feed.Items {
		if len(out) >= maxPerFeed {
			break
		}
		if e := parseItem(item, channelName); e != nil {
			out = append(out, *e)
		}
	}
	return out
}

func parseItem(item *gofeed.Item, channelName string) *Entry {
	id := extensionValue(item.Extensions, "yt", "videoId")
	if id == "" {
		id = media.VideoIDFromURL(item.Link)
	}
	if id == "" {
		id = strings.TrimPrefix(item.GUID, "yt:video:")
	}
	title := strings.TrimSpace(item.Title)
	if id == "" || title == "" {
		return nil
	}

	e := &Entry{VideoID: id, Title: title, ChannelName: channelName}
	if item.Author != nil && item.Author.Name != "" {
		e.ChannelName = item.Author.Name
	}

	switch {
	case item.PublishedParsed != nil:
		e.PublishedAt = item.PublishedParsed.UTC().Format(database.TimestampLayout)
	case item.UpdatedParsed != nil:
		e.PublishedAt = item.UpdatedParsed.UTC().Format(database.TimestampLayout)
	}

	if group := extension(item.Extensions, "media", "group"); group != nil {
		if d := group.Children["description"]; len(d) > 0 {
			e.Description = strings.TrimSpace(d[0].Value)
		}
		if th := group.Children["thumbnail"]; len(th) > 0 {
			e.ThumbnailURL = th[0].Attrs["url"]
		}
	}
	if e.Description == "" {
		e.Description = strings.TrimSpace(item.Description)
	}
	if e.ThumbnailURL == "" && item.Image != nil {
		e.ThumbnailURL = item.Image.URL
	}
	return e
}

func extension(exts ext.Extensions, prefix, name string) *ext.Extension {
	values := exts[prefix][name]
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func extensionValue(exts ext.Extensions, prefix, name string) string {
	if e := extension(exts, prefix, name); e != nil {
		return strings.TrimSpace(e.Value)
	}
	return ""
}
