package media

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ao4646/game-study-academy/internal/database"
)

func TestThumbnailURL(t *testing.T) {
	stored := "https://cdn.example.com/thumb.jpg"
	assert.Equal(t, stored, ThumbnailURL(&database.Video{VideoID: "abc", ThumbnailURL: &stored}))
	assert.Equal(t, "https://i.ytimg.com/vi/abc/hqdefault.jpg", ThumbnailURL(&database.Video{VideoID: "abc"}))

	empty := ""
	assert.Equal(t, "https://i.ytimg.com/vi/abc/hqdefault.jpg", ThumbnailURL(&database.Video{VideoID: "abc", ThumbnailURL: &empty}))
	assert.Equal(t, "", ThumbnailURL(nil))
}

func TestVideoIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/abc123":       "abc123",
		"https://www.youtube-nocookie.com/embed/xyz":  "xyz",
		"https://example.com/watch?v=nope":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, VideoIDFromURL(in), in)
	}
}

func TestWatchAndEmbedURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/abc", EmbedURL("abc"))
}
