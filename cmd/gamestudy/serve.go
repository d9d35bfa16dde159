package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ao4646/game-study-academy/internal/seo"
	"github.com/ao4646/game-study-academy/internal/server"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Options{
			Store:   db,
			Updater: db,
			Site: seo.Site{
				Name:        cfg.Site.Name,
				Description: cfg.Site.Description,
				BaseURL:     cfg.Server.BaseURL,
				Language:    cfg.Site.Language,
			},
			Credentials: cfg.Credentials,
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Serve(ctx, srv, fmt.Sprintf("%s:%d", serveHost, port))
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Interface to listen on")
}
