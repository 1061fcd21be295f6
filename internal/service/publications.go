package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolio/internal/cache"
	"portfolio/internal/model"
)

const (
	// AllYears selects every publication.
	AllYears = "All"
	// UnknownYear selects publications without a year.
	UnknownYear = "0"
)

// PublicationSource yields the normalized, sorted publication list.
type PublicationSource interface {
	Publications(ctx context.Context) (cache.Result[[]model.Publication], error)
}

// PublicationFilter narrows the list. Year is AllYears (or empty), UnknownYear
// ("unknown" is accepted too) or a four-digit year; Query matches titles.
type PublicationFilter struct {
	Year  string
	Query string
}

// PublicationList is the publications page model.
type PublicationList struct {
	// Available is false when the registry could not be read and nothing was cached.
	Available   bool                `json:"available"`
	FallbackURL string              `json:"fallbackUrl"`
	Stale       bool                `json:"stale"`
	FetchedAt   *time.Time          `json:"fetchedAt,omitempty"`
	Total       int                 `json:"total"`
	WithLink    int                 `json:"withLink"`
	Years       []int               `json:"years"`
	Items       []model.Publication `json:"items"`
}

// PublicationService lists publications with graceful degradation.
type PublicationService interface {
	List(ctx context.Context, f PublicationFilter) (*PublicationList, error)
}

type publicationService struct {
	src      PublicationSource
	fallback string
	log      *zap.Logger
}

// NewPublicationService returns a service that points at fallbackURL when src fails.
func NewPublicationService(src PublicationSource, fallbackURL string, log *zap.Logger) PublicationService {
	return &publicationService{src: src, fallback: fallbackURL, log: log}
}

// List never fails because of the registry: an unreachable source yields
// Available=false. Total and WithLink count the unfiltered list.
func (s *publicationService) List(ctx context.Context, f PublicationFilter) (*PublicationList, error) {
	out := &PublicationList{FallbackURL: s.fallback, Years: []int{}, Items: []model.Publication{}}

	res, err := s.src.Publications(ctx)
	if err != nil {
		s.log.Warn("publications_fetch_failed",
			zap.String("component", "orcid"),
			zap.Error(err),
		)
		return out, nil
	}
	if res.Stale {
		s.log.Info("publications_served_stale",
			zap.String("component", "orcid"),
			zap.Time("fetched_at", res.FetchedAt),
		)
	}

	fetched := res.FetchedAt
	out.Available = true
	out.Stale = res.Stale
	out.FetchedAt = &fetched
	out.Total = len(res.Value)
	for _, p := range res.Value {
		if p.HasLink {
			out.WithLink++
		}
	}
	out.Years = Years(res.Value)
	out.Items = FilterPublications(res.Value, f)
	return out, nil
}

// Years returns the distinct positive years, newest first.
func Years(pubs []model.Publication) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, p := range pubs {
		if p.Year == nil || *p.Year <= 0 {
			continue
		}
		if _, ok := seen[*p.Year]; ok {
			continue
		}
		seen[*p.Year] = struct{}{}
		years = append(years, *p.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// FilterPublications keeps the order of pubs.
func FilterPublications(pubs []model.Publication, f PublicationFilter) []model.Publication {
	year := strings.TrimSpace(f.Year)
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.Publication, 0, len(pubs))
	for _, p := range pubs {
		if !yearMatches(p.Year, year) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func yearMatches(y *int, sel string) bool {
	switch {
	case sel == "" || strings.EqualFold(sel, AllYears):
		return true
	case sel == UnknownYear || strings.EqualFold(sel, "unknown"):
		return y == nil
	default:
		return y != nil && strconv.Itoa(*y) == sel
	}
}
