package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio/internal/model"
	"portfolio/internal/service"
	"portfolio/internal/service/mocks"
)

func TestHomeService_Home(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	posts := []model.BlogPost{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}, {Slug: "d"}}
	pitfalls := []model.Pitfall{{ID: "x-001"}}

	setup := func() (*mocks.MockPreprintService, *mocks.MockPublicationService, *mocks.MockBlogService, *mocks.MockContentService) {
		pre := new(mocks.MockPreprintService)
		pubs := new(mocks.MockPublicationService)
		blog := new(mocks.MockBlogService)
		cs := new(mocks.MockContentService)
		blog.On("List").Return(posts)
		cs.On("Fact", now).Return("fact of the day")
		cs.On("Pitfalls", service.PitfallQuery{}).Return(service.PitfallResult{Featured: pitfalls})
		return pre, pubs, blog, cs
	}

	t.Run("all sources up", func(t *testing.T) {
		pre, pubs, blog, cs := setup()
		pre.On("Latest", mock.Anything).Return(model.Preprint{Title: "T", Link: "L", Source: "S"}, nil)
		pubs.On("List", mock.Anything, service.PublicationFilter{}).Return(&service.PublicationList{Available: true, Total: 9}, nil)

		h, err := service.NewHomeService(pre, pubs, blog, cs).Home(context.Background(), now)
		require.NoError(t, err)
		require.NotNil(t, h.Preprint)
		assert.Equal(t, "T", h.Preprint.Title)
		assert.Equal(t, 9, h.Publications)
		assert.Equal(t, "fact of the day", h.Fact)
		assert.Len(t, h.Posts, service.RecentPosts)
		assert.Equal(t, pitfalls, h.Pitfalls)
	})

	t.Run("upstream failures leave sections empty", func(t *testing.T) {
		pre, pubs, blog, cs := setup()
		pre.On("Latest", mock.Anything).Return(model.Preprint{}, errors.New("Fetch failed: 503"))
		pubs.On("List", mock.Anything, service.PublicationFilter{}).Return(&service.PublicationList{Available: false}, nil)

		h, err := service.NewHomeService(pre, pubs, blog, cs).Home(context.Background(), now)
		require.NoError(t, err)
		assert.Nil(t, h.Preprint)
		assert.Zero(t, h.Publications)
		assert.Len(t, h.Posts, service.RecentPosts)
	})

	t.Run("cancelled context", func(t *testing.T) {
		pre, pubs, blog, cs := setup()
		pre.On("Latest", mock.Anything).Return(model.Preprint{}, context.Canceled)
		pubs.On("List", mock.Anything, service.PublicationFilter{}).Return(&service.PublicationList{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := service.NewHomeService(pre, pubs, blog, cs).Home(ctx, now)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
