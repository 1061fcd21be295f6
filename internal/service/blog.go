package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"portfolio/internal/content"
	"portfolio/internal/model"
	"portfolio/internal/storage"
)

// RelatedPosts is how many related posts a post page shows.
const RelatedPosts = 3

// BlogPage is a single post with its neighbours.
type BlogPage struct {
	Post    model.BlogPost   `json:"post"`
	Related []model.BlogPost `json:"related"`
}

// PDF is a resolved document: either a URL to redirect to or a body to stream.
type PDF struct {
	URL  string
	Body io.ReadCloser
	Info storage.ObjectInfo
}

// PublishReport summarizes a publish run.
type PublishReport struct {
	Uploaded []string
	Skipped  []string
}

// BlogService serves the essays.
type BlogService interface {
	// List returns posts newest first.
	List() []model.BlogPost
	// ByYear groups List by year.
	ByYear() []content.YearGroup
	// Get resolves a slug case-insensitively, returning ErrNotFound for unknown slugs.
	Get(slug string) (*BlogPage, error)
	// OpenPDF locates the post's document in storage.
	OpenPDF(ctx context.Context, slug string) (*PDF, error)
	// Publish copies every post's document from src into the service's store.
	// Objects already present with the same size are skipped unless force is set.
	Publish(ctx context.Context, src storage.Storage, force bool) (*PublishReport, error)
}

type blogService struct {
	catalog    *content.Catalog
	store      storage.Storage
	presignTTL time.Duration
	log        *zap.Logger
}

// NewBlogService returns a BlogService. presignTTL of zero streams documents
// instead of redirecting to a presigned URL.
func NewBlogService(catalog *content.Catalog, store storage.Storage, presignTTL time.Duration, log *zap.Logger) BlogService {
	return &blogService{catalog: catalog, store: store, presignTTL: presignTTL, log: log}
}

func (s *blogService) List() []model.BlogPost {
	return s.catalog.SortedPosts()
}

func (s *blogService) ByYear() []content.YearGroup {
	return s.catalog.PostsByYear()
}

func (s *blogService) Get(slug string) (*BlogPage, error) {
	post, ok := s.catalog.GetItem(slug)
	if !ok {
		return nil, ErrNotFound
	}
	return &BlogPage{Post: post, Related: s.catalog.Related(post.Slug, RelatedPosts)}, nil
}

func (s *blogService) OpenPDF(ctx context.Context, slug string) (*PDF, error) {
	post, ok := s.catalog.GetItem(slug)
	if !ok {
		return nil, ErrNotFound
	}
	key := storage.KeyFor(post.File)

	if s.presignTTL > 0 {
		info, err := s.store.Stat(ctx, key)
		if err != nil {
			return nil, mapStorageError(key, err)
		}
		u, err := s.store.PresignGet(ctx, key, s.presignTTL)
		switch {
		case err == nil:
			return &PDF{URL: u, Info: info}, nil
		case !errors.Is(err, storage.ErrPresignUnsupported):
			return nil, fmt.Errorf("presign %s: %w", key, err)
		}
	}

	body, info, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, mapStorageError(key, err)
	}
	if info.ContentType == "" {
		info.ContentType = "application/pdf"
	}
	return &PDF{Body: body, Info: info}, nil
}

func (s *blogService) Publish(ctx context.Context, src storage.Storage, force bool) (*PublishReport, error) {
	report := &PublishReport{}
	for _, post := range s.catalog.Posts() {
		key := storage.KeyFor(post.File)

		body, info, err := src.Get(ctx, key)
		if err != nil {
			return report, fmt.Errorf("read %s: %w", key, err)
		}

		if !force {
			if existing, err := s.store.Stat(ctx, key); err == nil && existing.Size == info.Size {
				body.Close()
				report.Skipped = append(report.Skipped, key)
				s.log.Debug("blog_pdf_skipped", zap.String("key", key))
				continue
			}
		}

		_, err = s.store.Put(ctx, key, body, storage.PutObjectOptions{
			Size:        info.Size,
			ContentType: "application/pdf",
			Metadata:    map[string]string{"slug": post.Slug},
		})
		body.Close()
		if err != nil {
			return report, fmt.Errorf("upload %s: %w", key, err)
		}
		report.Uploaded = append(report.Uploaded, key)
		s.log.Info("blog_pdf_uploaded", zap.String("key", key), zap.Int64("size", info.Size))
	}
	return report, nil
}

func mapStorageError(key string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("document %s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("open %s: %w", key, err)
}
