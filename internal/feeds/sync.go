package feeds

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mmcdole/gofeed"

	"github.com/ao4646/game-study-academy/internal/config"
	"github.com/ao4646/game-study-academy/internal/database"
)

const fetchTimeout = 30 * time.Second

// Store is what a sync writes to.
type Store interface {
	GetGameBySlug(slug string) (*database.Game, error)
	UpsertVideo(v database.Video) (int64, bool, error)
}

// Result summarises a sync run.
type Result struct {
	Found   int
	New     int
	Updated int
	Failed  int
	Sources map[string]int
}

// Syncer pulls each configured channel feed and upserts its videos.
type Syncer struct {
	store  Store
	feeds  []config.Feed
	parser *gofeed.Parser
	logger hclog.Logger
}

// NewSyncer creates a Syncer for feeds.
func NewSyncer(store Store, feeds []config.Feed, logger hclog.Logger) *Syncer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Syncer{
		store:  store,
		feeds:  feeds,
		parser: newParser(),
		logger: logger.Named("feeds"),
	}
}

// Sync processes every feed. A feed that fails to load or names an unknown
// game is logged and skipped; the run carries on with the rest.
func (s *Syncer) Sync(ctx context.Context) *Result {
	r := &Result{Sources: make(map[string]int)}

	for _, f := range s.feeds {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("sync interrupted", "error", err)
			break
		}
		log := s.logger.With("feed", f.Name, "game", f.Game)

		game, err := s.store.GetGameBySlug(f.Game)
		if err != nil {
			log.Error("failed to look up game", "error", err)
			r.Failed++
			continue
		}
		if game == nil {
			log.Warn("feed names an unknown game, skipping")
			r.Failed++
			continue
		}

		entries, err := Parse(ctx, s.parser, f.URL, f.Name)
		if err != nil {
			log.Error("failed to parse feed", "url", f.URL, "error", err)
			r.Failed++
			continue
		}
		r.Found += len(entries)

		for _, e := range entries {
			_, isNew, err := s.store.UpsertVideo(e.Video(game.ID))
			if err != nil {
				log.Error("failed to store video", "video_id", e.VideoID, "error", err)
				continue
			}
			if isNew {
				r.New++
				r.Sources[f.Name]++
			} else {
				r.Updated++
			}
		}
		log.Info("parsed feed", "entries", len(entries))
	}

	s.logger.Info("sync complete", "found", r.Found, "new", r.New, "updated", r.Updated, "failed", r.Failed)
	return r
}

func newParser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.UserAgent = "gamestudy/1.0"
	p.Client = &http.Client{Timeout: fetchTimeout}
	return p
}
