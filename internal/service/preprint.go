package service

import (
	"context"

	"go.uber.org/zap"

	"portfolio/internal/model"
)

// PreprintSource yields the newest preprint of a feed.
type PreprintSource interface {
	Latest(ctx context.Context) (model.Preprint, error)
}

// PreprintService exposes the latest preprint. Errors from the source are
// logged and returned untouched so callers can report them verbatim.
type PreprintService interface {
	Latest(ctx context.Context) (model.Preprint, error)
}

type preprintService struct {
	src PreprintSource
	log *zap.Logger
}

// NewPreprintService wraps src.
func NewPreprintService(src PreprintSource, log *zap.Logger) PreprintService {
	return &preprintService{src: src, log: log}
}

func (s *preprintService) Latest(ctx context.Context) (model.Preprint, error) {
	p, err := s.src.Latest(ctx)
	if err != nil {
		s.log.Warn("preprint_fetch_failed",
			zap.String("component", "arxiv"),
			zap.Error(err),
		)
		return model.Preprint{}, err
	}
	return p, nil
}
