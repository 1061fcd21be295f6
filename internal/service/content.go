package service

import (
	"time"

	"portfolio/internal/content"
	"portfolio/internal/model"
)

// PitfallQuery narrows the pitfall cards.
type PitfallQuery struct {
	Category string
	Query    string
}

// PitfallResult is the "debug your science" view model.
type PitfallResult struct {
	Categories []model.CategoryCount `json:"categories"`
	Items      []model.Pitfall       `json:"items"`
	Featured   []model.Pitfall       `json:"featured"`
}

// ContentService answers questions about the static tables.
type ContentService interface {
	Profile() content.Profile
	Projects() []model.Project
	ProjectTags() []string
	Pitfalls(q PitfallQuery) PitfallResult
	Fact(now time.Time) string
}

type contentService struct {
	catalog *content.Catalog
}

// NewContentService wraps catalog.
func NewContentService(catalog *content.Catalog) ContentService {
	return &contentService{catalog: catalog}
}

func (s *contentService) Profile() content.Profile { return s.catalog.Profile() }

func (s *contentService) Projects() []model.Project { return s.catalog.Projects() }

func (s *contentService) ProjectTags() []string { return s.catalog.ProjectTags() }

func (s *contentService) Pitfalls(q PitfallQuery) PitfallResult {
	items := s.catalog.FilterPitfalls(q.Category, q.Query)
	featured := items
	if len(featured) > content.FeaturedPitfalls {
		featured = featured[:content.FeaturedPitfalls]
	}
	return PitfallResult{
		Categories: s.catalog.PitfallCategories(),
		Items:      items,
		Featured:   featured,
	}
}

func (s *contentService) Fact(now time.Time) string { return s.catalog.FactOfTheDay(now) }
