package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ao4646/game-study-academy/internal/config"
	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/logging"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	envPath    string
	cfg        *config.Config
	logger     hclog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "gamestudy",
	Short:   "Game guide articles from YouTube videos",
	Long:    "gamestudy serves SEO-friendly game guide articles written from YouTube videos, and syncs the videos they are based on.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			logger = logging.Discard()
			return nil
		}

		if err := config.LoadEnv(envPath); err != nil {
			return err
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
		if err != nil {
			return err
		}
		logger.Debug("config loaded", "path", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", ".env", "Path to a .env file with store credentials")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(syncVideosCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(articlesCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gamestudy", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/gamestudy/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the site URL and the YouTube channels to sync.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		rows := [][]string{
			{"games", strconv.Itoa(stats.Games)},
			{"videos", strconv.Itoa(stats.Videos)},
			{"articles", strconv.Itoa(stats.Articles)},
			{"published", strconv.Itoa(stats.PublishedArticles)},
			{"categories", strconv.Itoa(stats.Categories)},
		}
		for _, kind := range database.TaxonKinds {
			rows = append(rows, []string{kind.Table(), strconv.Itoa(stats.Taxa[kind])})
		}
		rows = append(rows, []string{"filter keywords", strconv.Itoa(stats.FilterKeywords)})

		fmt.Printf("Database: %s\n", db.Path())
		fmt.Println(renderTable([]string{"Table", "Rows"}, rows, []columnAlignment{alignLeft, alignRight}))

		creds := "missing"
		if cfg.Credentials().Complete() {
			creds = "configured"
		}
		fmt.Printf("Store credentials (%s, %s): %s\n", cfg.Store.URLEnv, cfg.Store.KeyEnv, creds)
		return nil
	},
}

func openDB() (*database.DB, error) {
	return database.Open(cfg.DBPath(), logger)
}
