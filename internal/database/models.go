package database

// Game is the root of partitioning; everything else references a game_id.
type Game struct {
	ID          int64
	Name        string
	Slug        string
	Description *string
	CreatedAt   *string
}

// Video is the YouTube source material an article republishes.
type Video struct {
	ID           int64
	VideoID      string // external YouTube identifier
	Title        string
	Description  *string
	ChannelName  *string
	PublishedAt  *string
	ThumbnailURL *string
	GameID       int64
	CreatedAt    *string
}

// Article is a guide article written from a video.
type Article struct {
	ID        int64
	Title     string
	Content   string
	Summary   *string
	VideoID   int64
	GameID    int64
	Published bool

	SEOTitle        *string
	MetaDescription *string
	Keywords        *string
	Slug            *string

	RelatedBossID     *int64
	RelatedStrategyID *int64
	RelatedClassID    *int64
	RelatedTipID      *int64
	RelatedDungeonID  *int64
	RelatedStoryID    *int64

	ReadTime  int
	CreatedAt string
	UpdatedAt string
}

// Related returns the first populated related_*_id in column order.
// An article links to at most one taxonomy row in practice.
func (a *Article) Related() (TaxonKind, int64, bool) {
	for _, kind := range TaxonKinds {
		if id := a.relatedID(kind); id != nil {
			return kind, *id, true
		}
	}
	return "", 0, false
}

func (a *Article) relatedID(kind TaxonKind) *int64 {
	switch kind {
	case KindBoss:
		return a.RelatedBossID
	case KindStrategy:
		return a.RelatedStrategyID
	case KindClass:
		return a.RelatedClassID
	case KindTip:
		return a.RelatedTipID
	case KindDungeon:
		return a.RelatedDungeonID
	case KindStory:
		return a.RelatedStoryID
	}
	return nil
}

// SetRelated points the article at a taxonomy row, clearing the others.
func (a *Article) SetRelated(kind TaxonKind, id int64) {
	a.RelatedBossID, a.RelatedStrategyID, a.RelatedClassID = nil, nil, nil
	a.RelatedTipID, a.RelatedDungeonID, a.RelatedStoryID = nil, nil, nil
	v := id
	switch kind {
	case KindBoss:
		a.RelatedBossID = &v
	case KindStrategy:
		a.RelatedStrategyID = &v
	case KindClass:
		a.RelatedClassID = &v
	case KindTip:
		a.RelatedTipID = &v
	case KindDungeon:
		a.RelatedDungeonID = &v
	case KindStory:
		a.RelatedStoryID = &v
	}
}

// Category is attached to articles through article_categories.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description *string
	GameID      int64
}

// ArticleCategory is one row of the article/category join table.
type ArticleCategory struct {
	ArticleID  int64
	CategoryID int64
}

// Taxon is a row from one of the game-scoped lookup tables: bosses, classes,
// dungeons, strategies, tips or stories. They share a shape.
type Taxon struct {
	ID          int64
	Kind        TaxonKind
	GameID      int64
	Name        string
	Slug        string
	Description *string
	ImageURL    *string
}

// FilterKeyword is a literal substring that selects (or, with Exclude set,
// rejects) articles for a taxonomy row on the guide pages.
type FilterKeyword struct {
	ID         int64
	EntityType TaxonKind
	EntityID   int64
	Keyword    string
	Exclude    bool
}

// ArticleQuery describes a published-article lookup.
type ArticleQuery struct {
	GameID int64 // 0 matches every game

	// Related restricts to articles linked to a taxonomy kind. With
	// RelatedID 0 it means "related_*_id IS NOT NULL".
	Related   TaxonKind
	RelatedID int64

	// CreatedFrom and CreatedTo bound created_at as [from, to).
	CreatedFrom string
	CreatedTo   string

	Search string // substring of title or summary

	OrderByID bool // default is created_at DESC
	Limit     int
}

// DayCount is the number of published articles created on a day.
type DayCount struct {
	Day   string // YYYY-MM-DD
	Count int
}

// Stats contains aggregate database statistics.
type Stats struct {
	Games             int
	Videos            int
	Articles          int
	PublishedArticles int
	Categories        int
	Taxa              map[TaxonKind]int
	FilterKeywords    int
}
