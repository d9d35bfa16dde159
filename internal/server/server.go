package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ao4646/game-study-academy/internal/config"
	"github.com/ao4646/game-study-academy/internal/content"
	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/seo"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var pageNames = []string{
	"home.html",
	"game.html",
	"guide.html",
	"article.html",
	"category.html",
	"taxon_list.html",
	"taxon.html",
	"date.html",
	"search.html",
	"not_found.html",
}

// Updater performs the one content write the site exposes.
type Updater interface {
	UpdateArticleContent(id int64, content, updatedAt string) (*database.Article, error)
}

// Options configure a Server.
type Options struct {
	Store   content.Store
	Updater Updater
	Site    seo.Site

	// Credentials reports the store credentials. Nil reads nothing, so the
	// update endpoint answers 503.
	Credentials func() config.Credentials

	Logger hclog.Logger
}

// Server is the HTTP server for the site.
type Server struct {
	reader      *content.Reader
	updater     Updater
	site        seo.Site
	credentials func() config.Credentials
	logger      hclog.Logger
	pages       map[string]*template.Template
	mux         *http.ServeMux
}

// New creates a new Server.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("http")

	funcMap := template.FuncMap{
		"kindLabel": content.KindLabel,
		"taxonURL":  content.TaxonURL,
		"formatDay": database.FormatDay,
		"navKinds":  navKinds,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone of base so {{define "content"}} does not
	// collide across pages.
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	credentials := opts.Credentials
	if credentials == nil {
		credentials = func() config.Credentials { return config.Credentials{} }
	}

	s := &Server{
		reader:      content.NewReader(opts.Store, logger),
		updater:     opts.Updater,
		site:        opts.Site,
		credentials: credentials,
		logger:      logger,
		pages:       pages,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /games/{slug}", s.handleGame)
	s.mux.HandleFunc("GET /games/{slug}/guides/{guide}", s.handleGuide)
	s.mux.HandleFunc("GET /articles/{id}", s.handleArticle)
	s.mux.HandleFunc("GET /categories/{id}", s.handleCategory)
	s.mux.HandleFunc("GET /date/{date}", s.handleDate)
	s.mux.HandleFunc("GET /search", s.handleSearch)

	// Spelled out per kind: a "/{kind}/{slug}" wildcard would overlap /static/.
	for _, kind := range database.TaxonKinds {
		s.mux.HandleFunc("GET "+content.TaxonListURL(kind), s.handleTaxonList(kind))
		s.mux.HandleFunc("GET "+content.TaxonListURL(kind)+"/{slug}", s.handleTaxon(kind))
	}

	s.mux.HandleFunc("GET /api/search", s.handleAPISearch)
	s.mux.HandleFunc("GET /api/calendar", s.handleAPICalendar)
	s.mux.HandleFunc("GET /api/articles", s.handleAPIArticlesByDate)
	s.mux.HandleFunc("POST /api/update-article", s.handleUpdateArticle)

	s.mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	s.mux.HandleFunc("GET /robots.txt", s.handleRobots)

	s.mux.HandleFunc("/", s.notFound)
}

// page is what every template receives.
type page struct {
	Site seo.Site
	Meta seo.Meta
	Data any
	Year int
}

func (s *Server) render(w http.ResponseWriter, status int, name string, meta seo.Meta, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.logger.Error("template not found", "template", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	p := page{Site: s.site, Meta: meta, Data: data, Year: time.Now().Year()}
	if err := tmpl.ExecuteTemplate(&buf, "base.html", p); err != nil {
		s.logger.Error("rendering template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "not_found.html", seo.ForNotFound(s.site), nil)
}

// Serve runs srv on addr until ctx is cancelled, then drains in-flight
// requests.
func Serve(ctx context.Context, srv *Server, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("server listening", "url", "http://"+addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type navItem struct {
	Label string
	URL   string
}

func navKinds() []navItem {
	items := make([]navItem, 0, len(database.TaxonKinds))
	for _, kind := range database.TaxonKinds {
		items = append(items, navItem{Label: content.KindLabel(kind), URL: content.TaxonListURL(kind)})
	}
	return items
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
