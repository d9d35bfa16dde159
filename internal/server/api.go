package server

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ao4646/game-study-academy/internal/content"
	"github.com/ao4646/game-study-academy/internal/database"
)

// updatableArticleID is the only article the update endpoint may touch.
const updatableArticleID int64 = 7

// article7Content replaces the body of updatableArticleID.
//
//go:embed patches/article-7.md
var article7Content string

const (
	msgOnlyArticle7    = "記事ID 7 のみ更新可能です"
	msgBadRequest      = "リクエストの形式が正しくありません"
	msgNotConfigured   = "データベースの接続設定がありません"
	msgUpdateFailed    = "記事の更新に失敗しました"
	msgArticleNotFound = "記事が見つかりません"
	msgInvalidMonth    = "月の形式が正しくありません (YYYY-MM)"
	msgInvalidDate     = "日付の形式が正しくありません (YYYY-MM-DD)"
)

type errorResponse struct {
	Error string `json:"error"`
}

type articleJSON struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Summary   *string `json:"summary"`
	VideoID   int64   `json:"video_id"`
	GameID    int64   `json:"game_id"`
	Published bool    `json:"published"`
	ReadTime  int     `json:"read_time"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toArticleJSON(a *database.Article) articleJSON {
	return articleJSON{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Summary:   a.Summary,
		VideoID:   a.VideoID,
		GameID:    a.GameID,
		Published: a.Published,
		ReadTime:  a.ReadTime,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type cardJSON struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Game      string `json:"game"`
	Date      string `json:"date"`
	Summary   string `json:"summary"`
}

func toCardsJSON(cards []content.Card) []cardJSON {
	out := make([]cardJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardJSON{
			ID:        c.Article.ID,
			Title:     c.Article.Title,
			URL:       c.URL(),
			Thumbnail: c.ThumbnailURL(),
			Game:      c.GameName(),
			Date:      c.Date(),
			Summary:   c.Summary(),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type updateRequest struct {
	ArticleID *int64 `json:"articleId"`
}

// handleUpdateArticle replaces the body of one hard-coded article. Any
// other id is refused before the store is touched.
func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}
	if req.ArticleID == nil || *req.ArticleID != updatableArticleID {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgOnlyArticle7})
		return
	}

	if !s.credentials().Complete() || s.updater == nil {
		s.logger.Warn("update refused, store credentials missing")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: msgNotConfigured})
		return
	}

	updated, err := s.updater.UpdateArticleContent(updatableArticleID, strings.TrimSpace(article7Content), database.Now())
	if err != nil {
		s.logger.Error("article update failed", "article", updatableArticleID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgUpdateFailed})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgArticleNotFound})
		return
	}

	s.logger.Info("article updated", "article", updated.ID, "updated_at", updated.UpdatedAt)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"article": toArticleJSON(updated),
	})
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	cards := s.reader.ForRequest().Search(r.Context(), q)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":    q,
		"articles": toCardsJSON(cards),
	})
}

type calendarDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	URL   string `json:"url"`
}

func (s *Server) handleAPICalendar(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	cal := s.reader.ForRequest().CalendarMonth(month)
	if cal == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidMonth})
		return
	}
	days := make([]calendarDay, 0, len(cal.Days))
	for _, d := range cal.Days {
		days = append(days, calendarDay{Date: d.Day, Count: d.Count, URL: content.DateURL(d.Day)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month": cal.Month,
		"days":  days,
	})
}

func (s *Server) handleAPIArticlesByDate(w http.ResponseWriter, r *http.Request) {
	view := s.reader.ForRequest().DatePage(r.Context(), r.URL.Query().Get("date"))
	if view == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidDate})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":     view.Day,
		"articles": toCardsJSON(view.Articles),
	})
}
