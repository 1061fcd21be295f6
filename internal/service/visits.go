package service

import (
	"context"
	"fmt"

	"portfolio/internal/repository"
)

// VisitService counts page loads.
type VisitService interface {
	// Hit records one visit and returns the running total.
	Hit(ctx context.Context) (int64, error)
	// Count returns the running total without recording a visit.
	Count(ctx context.Context) (int64, error)
}

type visitService struct {
	repo repository.CounterRepository
	key  string
}

// NewVisitService returns a VisitService backed by the named counter.
func NewVisitService(repo repository.CounterRepository, key string) VisitService {
	return &visitService{repo: repo, key: key}
}

func (s *visitService) Hit(ctx context.Context) (int64, error) {
	if s.key == "" {
		return 0, ErrKeyRequired
	}
	n, err := s.repo.Increment(ctx, s.key)
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", s.key, err)
	}
	return n, nil
}

func (s *visitService) Count(ctx context.Context) (int64, error) {
	if s.key == "" {
		return 0, ErrKeyRequired
	}
	n, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", s.key, err)
	}
	return n, nil
}
