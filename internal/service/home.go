package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/model"
)

// RecentPosts is how many posts the home page lists.
const RecentPosts = 3

// Home is the landing page model. Upstream failures leave their section empty.
type Home struct {
	Preprint     *model.Preprint  `json:"preprint"`
	Fact         string           `json:"fact"`
	Posts        []model.BlogPost `json:"posts"`
	Pitfalls     []model.Pitfall  `json:"pitfalls"`
	Publications int              `json:"publications"`
}

// HomeService assembles the landing page.
type HomeService interface {
	Home(ctx context.Context, now time.Time) (*Home, error)
}

type homeService struct {
	preprints    PreprintService
	publications PublicationService
	blog         BlogService
	content      ContentService
}

// NewHomeService composes the other services.
func NewHomeService(pre PreprintService, pubs PublicationService, blog BlogService, cs ContentService) HomeService {
	return &homeService{preprints: pre, publications: pubs, blog: blog, content: cs}
}

// Home loads the preprint and publication count concurrently. Neither failure
// is fatal; the error is only non-nil when ctx is cancelled.
func (s *homeService) Home(ctx context.Context, now time.Time) (*Home, error) {
	h := &Home{
		Fact:     s.content.Fact(now),
		Pitfalls: s.content.Pitfalls(PitfallQuery{}).Featured,
	}
	posts := s.blog.List()
	if len(posts) > RecentPosts {
		posts = posts[:RecentPosts]
	}
	h.Posts = posts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if p, err := s.preprints.Latest(gctx); err == nil {
			h.Preprint = &p
		}
		return nil
	})
	g.Go(func() error {
		list, err := s.publications.List(gctx, PublicationFilter{})
		if err == nil && list.Available {
			h.Publications = list.Total
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h, nil
}
