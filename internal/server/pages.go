package server

import (
	"net/http"
	"strings"

	"github.com/ao4646/game-study-academy/internal/content"
	"github.com/ao4646/game-study-academy/internal/database"
	"github.com/ao4646/game-study-academy/internal/seo"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home := s.reader.ForRequest().HomePage(r.Context())
	s.render(w, http.StatusOK, "home.html", seo.ForHome(s.site), home)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	view := s.reader.ForRequest().GamePage(r.Context(), r.PathValue("slug"))
	if view == nil {
		s.notFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "game.html", seo.ForGame(s.site, view), view)
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	guide, ok := content.ParseGuide(r.PathValue("guide"))
	if !ok {
		s.notFound(w, r)
		return
	}
	view := s.reader.ForRequest().GuidePage(r.Context(), r.PathValue("slug"), guide, r.URL.Query().Get("filter"))
	if view == nil {
		s.notFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "guide.html", seo.ForGuide(s.site, view), view)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		s.notFound(w, r)
		return
	}
	view := s.reader.ForRequest().ArticlePage(r.Context(), id)
	if view == nil {
		s.notFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "article.html", seo.ForArticle(s.site, view), view)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		s.notFound(w, r)
		return
	}
	view := s.reader.ForRequest().CategoryPage(r.Context(), id)
	if view == nil {
		s.notFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "category.html", seo.ForCategory(s.site, view), view)
}

func (s *Server) handleTaxonList(kind database.TaxonKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := s.reader.ForRequest().TaxonomyList(r.Context(), kind)
		s.render(w, http.StatusOK, "taxon_list.html", seo.ForTaxonList(s.site, view), view)
	}
}

func (s *Server) handleTaxon(kind database.TaxonKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := s.reader.ForRequest().TaxonomyPage(r.Context(), kind, r.PathValue("slug"))
		if view == nil {
			s.notFound(w, r)
			return
		}
		s.render(w, http.StatusOK, "taxon.html", seo.ForTaxon(s.site, view), view)
	}
}

// handleDate answers 404 for a malformed date; a valid day with nothing
// published renders the empty state.
func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	view := s.reader.ForRequest().DatePage(r.Context(), r.PathValue("date"))
	if view == nil {
		s.notFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "date.html", seo.ForDate(s.site, view), view)
}

type searchView struct {
	Query   string
	Results []content.Card
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	view := searchView{Query: q, Results: s.reader.ForRequest().Search(r.Context(), q)}
	s.render(w, http.StatusOK, "search.html", seo.ForSearch(s.site, q), view)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	reader := s.reader.ForRequest()
	urls := seo.SitemapURLs(s.site, seo.SitemapInput{
		Games:      reader.Games(),
		Articles:   reader.PublishedArticles(r.Context()),
		Categories: reader.Categories(),
		Taxa:       reader.AllTaxa(),
	})
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := seo.WriteSitemap(w, urls); err != nil {
		s.logger.Error("writing sitemap", "error", err)
	}
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(s.site)))
}
