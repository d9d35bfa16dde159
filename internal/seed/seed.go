// Package seed loads games, categories, taxonomy rows and filter keywords
// from a YAML fixture.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/ao4646/game-study-academy/internal/database"
)

//go:embed elden-ring.yaml
var DefaultFixtureYAML []byte

// Fixture is the document shape.
type Fixture struct {
	Games []Game `yaml:"games"`
}

type Game struct {
	Name        string             `yaml:"name"`
	Slug        string             `yaml:"slug"`
	Description string             `yaml:"description"`
	Categories  []Category         `yaml:"categories"`
	Taxa        map[string][]Taxon `yaml:"taxa"`
}

type Category struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type Taxon struct {
	Name        string   `yaml:"name"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Keywords    []string `yaml:"keywords"`
	Exclude     []string `yaml:"exclude"`
}

// Store is what seeding writes to.
type Store interface {
	GetGameBySlug(slug string) (*database.Game, error)
	InsertGame(name, slug string, description *string) (int64, error)
	GetCategoriesForGame(gameID int64) ([]database.Category, error)
	InsertCategory(c database.Category) (int64, error)
	GetTaxonBySlug(kind database.TaxonKind, gameID int64, slug string) (*database.Taxon, error)
	InsertTaxon(t database.Taxon) (int64, error)
	InsertFilterKeyword(kind database.TaxonKind, entityID int64, keyword string, exclude bool) error
}

// Result counts the rows a run created. Existing rows are left alone;
// Keywords counts every keyword written, duplicates included.
type Result struct {
	Games      int
	Categories int
	Taxa       int
	Keywords   int
}

// Parse decodes and validates a fixture.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	for _, g := range f.Games {
		if g.Name == "" || g.Slug == "" {
			return nil, fmt.Errorf("game %q: name and slug are required", g.Slug)
		}
		for key := range g.Taxa {
			if _, ok := database.ParseTaxonKind(key); !ok {
				return nil, fmt.Errorf("game %s: unknown taxonomy %q", g.Slug, key)
			}
		}
	}
	return &f, nil
}

// LoadFile reads a fixture from disk. An empty path yields the embedded
// default.
func LoadFile(path string) (*Fixture, error) {
	if path == "" {
		return Parse(DefaultFixtureYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return Parse(data)
}

// Apply writes the fixture. It can be rerun: rows are matched by slug and
// only missing ones are inserted, and keywords are deduplicated by the store.
func Apply(store Store, f *Fixture, logger hclog.Logger) (*Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("seed")
	r := &Result{}

	for _, g := range f.Games {
		gameID, err := ensureGame(store, g, r)
		if err != nil {
			return r, err
		}
		if err := ensureCategories(store, gameID, g.Categories, r); err != nil {
			return r, err
		}
		for _, kind := range database.TaxonKinds {
			for _, t := range taxaFor(g, kind) {
				if err := ensureTaxon(store, gameID, kind, t, r); err != nil {
					return r, err
				}
			}
		}
		logger.Info("seeded game", "game", g.Slug)
	}

	logger.Info("seed complete", "games", r.Games, "categories", r.Categories, "taxa", r.Taxa, "keywords", r.Keywords)
	return r, nil
}

// taxaFor accepts either the kind or its table name as the YAML key.
func taxaFor(g Game, kind database.TaxonKind) []Taxon {
	if rows, ok := g.Taxa[kind.Table()]; ok {
		return rows
	}
	return g.Taxa[string(kind)]
}

func ensureGame(store Store, g Game, r *Result) (int64, error) {
	existing, err := store.GetGameBySlug(g.Slug)
	if err != nil {
		return 0, fmt.Errorf("looking up game %s: %w", g.Slug, err)
	}
	if existing != nil {
		return existing.ID, nil
	}
	id, err := store.InsertGame(g.Name, g.Slug, optional(g.Description))
	if err != nil {
		return 0, fmt.Errorf("inserting game %s: %w", g.Slug, err)
	}
	r.Games++
	return id, nil
}

func ensureCategories(store Store, gameID int64, categories []Category, r *Result) error {
	existing, err := store.GetCategoriesForGame(gameID)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.Slug] = true
	}
	for _, c := range categories {
		if have[c.Slug] {
			continue
		}
		if _, err := store.InsertCategory(database.Category{
			Name: c.Name, Slug: c.Slug, Description: optional(c.Description), GameID: gameID,
		}); err != nil {
			return fmt.Errorf("inserting category %s: %w", c.Slug, err)
		}
		have[c.Slug] = true
		r.Categories++
	}
	return nil
}

func ensureTaxon(store Store, gameID int64, kind database.TaxonKind, t Taxon, r *Result) error {
	row, err := store.GetTaxonBySlug(kind, 0, t.Slug)
	if err != nil {
		return fmt.Errorf("looking up %s %s: %w", kind, t.Slug, err)
	}
	if row != nil && row.GameID != gameID {
		return fmt.Errorf("%s slug %q already belongs to game %d", kind, t.Slug, row.GameID)
	}
	var id int64
	if row != nil {
		id = row.ID
	} else {
		id, err = store.InsertTaxon(database.Taxon{
			Kind:        kind,
			GameID:      gameID,
			Name:        t.Name,
			Slug:        t.Slug,
			Description: optional(t.Description),
			ImageURL:    optional(t.ImageURL),
		})
		if err != nil {
			return fmt.Errorf("inserting %s %s: %w", kind, t.Slug, err)
		}
		r.Taxa++
	}

	for _, kw := range t.Keywords {
		if err := store.InsertFilterKeyword(kind, id, kw, false); err != nil {
			return fmt.Errorf("inserting keyword %q: %w", kw, err)
		}
		r.Keywords++
	}
	for _, kw := range t.Exclude {
		if err := store.InsertFilterKeyword(kind, id, kw, true); err != nil {
			return fmt.Errorf("inserting exclusion %q: %w", kw, err)
		}
		r.Keywords++
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
