package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/ao4646/game-study-academy/internal/feeds"
	"github.com/ao4646/game-study-academy/internal/seed"
)

var syncVideosCmd = &cobra.Command{
	Use:   "sync-videos",
	Short: "Fetch the configured YouTube channel feeds into the videos table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Feeds) == 0 {
			fmt.Println("No feeds configured.")
			return nil
		}

		lockPath := filepath.Join(filepath.Dir(cfg.DBPath()), "sync.lock")
		if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		lock := flock.New(lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquiring sync lock: %w", err)
		}
		if !ok {
			return fmt.Errorf("another sync is already running (lock: %s)", lockPath)
		}
		defer func() { _ = lock.Unlock() }()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := feeds.NewSyncer(db, cfg.Feeds, logger).Sync(ctx)
		fmt.Printf("Found %d videos: %d new, %d updated, %d feeds failed\n", r.Found, r.New, r.Updated, r.Failed)
		return nil
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load games, categories, taxonomy and filter keywords from a fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		r, err := seed.Apply(db, fixture, logger)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d games, %d categories, %d taxonomy rows, %d keywords\n",
			r.Games, r.Categories, r.Taxa, r.Keywords)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Fixture YAML (default: built-in Elden Ring fixture)")
}
