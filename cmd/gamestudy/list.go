package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/markdown"
)

var (
	listGame  string
	listLimit int
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Inspect synced videos",
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List videos, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		gameID, err := resolveGame(db)
		if err != nil {
			return err
		}
		videos, err := db.GetVideos(gameID, listLimit)
		if err != nil {
			return fmt.Errorf("listing videos: %w", err)
		}
		if len(videos) == 0 {
			fmt.Println("No videos.")
			return nil
		}

		rows := make([][]string, 0, len(videos))
		for _, v := range videos {
			published := ""
			if v.PublishedAt != nil {
				published = database.FormatDay(*v.PublishedAt)
			}
			rows = append(rows, []string{strconv.FormatInt(v.ID, 10), v.VideoID, markdown.Truncate(v.Title, 40), published})
		}
		fmt.Println(renderTable([]string{"ID", "Video", "Title", "Published"}, rows, []columnAlignment{alignRight}))
		return nil
	},
}

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Inspect published articles",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		gameID, err := resolveGame(db)
		if err != nil {
			return err
		}
		articles, err := db.GetPublishedArticles(database.ArticleQuery{GameID: gameID, Limit: listLimit})
		if err != nil {
			return fmt.Errorf("listing articles: %w", err)
		}
		if len(articles) == 0 {
			fmt.Println("No published articles.")
			return nil
		}

		rows := make([][]string, 0, len(articles))
		for _, a := range articles {
			related := ""
			if kind, id, ok := a.Related(); ok {
				related = fmt.Sprintf("%s #%d", kind, id)
			}
			rows = append(rows, []string{
				strconv.FormatInt(a.ID, 10),
				markdown.Truncate(a.Title, 40),
				related,
				database.FormatDay(a.CreatedAt),
			})
		}
		fmt.Println(renderTable([]string{"ID", "Title", "Related", "Created"}, rows, []columnAlignment{alignRight}))
		return nil
	},
}

func resolveGame(db *database.DB) (int64, error) {
	if listGame == "" {
		return 0, nil
	}
	g, err := db.GetGameBySlug(listGame)
	if err != nil {
		return 0, err
	}
	if g == nil {
		return 0, fmt.Errorf("unknown game %q", listGame)
	}
	return g.ID, nil
}

func init() {
	for _, c := range []*cobra.Command{videosListCmd, articlesListCmd} {
		c.Flags().StringVarP(&listGame, "game", "g", "", "Restrict to a game slug")
		c.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum rows to show")
	}
	videosCmd.AddCommand(videosListCmd)
	articlesCmd.AddCommand(articlesListCmd)
}
