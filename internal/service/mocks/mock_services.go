package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"portfolio/internal/content"
	"portfolio/internal/model"
	"portfolio/internal/service"
	"portfolio/internal/storage"
)

type MockVisitService struct {
	mock.Mock
}

func (m *MockVisitService) Hit(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVisitService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPreprintService struct {
	mock.Mock
}

func (m *MockPreprintService) Latest(ctx context.Context) (model.Preprint, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Preprint), args.Error(1)
}

type MockPublicationService struct {
	mock.Mock
}

func (m *MockPublicationService) List(ctx context.Context, f service.PublicationFilter) (*service.PublicationList, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublicationList), args.Error(1)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) List() []model.BlogPost {
	args := m.Called()
	return args.Get(0).([]model.BlogPost)
}

func (m *MockBlogService) ByYear() []content.YearGroup {
	args := m.Called()
	return args.Get(0).([]content.YearGroup)
}

func (m *MockBlogService) Get(slug string) (*service.BlogPage, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BlogPage), args.Error(1)
}

func (m *MockBlogService) OpenPDF(ctx context.Context, slug string) (*service.PDF, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PDF), args.Error(1)
}

func (m *MockBlogService) Publish(ctx context.Context, src storage.Storage, force bool) (*service.PublishReport, error) {
	args := m.Called(ctx, src, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishReport), args.Error(1)
}

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Profile() content.Profile {
	args := m.Called()
	return args.Get(0).(content.Profile)
}

func (m *MockContentService) Projects() []model.Project {
	args := m.Called()
	return args.Get(0).([]model.Project)
}

func (m *MockContentService) ProjectTags() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockContentService) Pitfalls(q service.PitfallQuery) service.PitfallResult {
	args := m.Called(q)
	return args.Get(0).(service.PitfallResult)
}

func (m *MockContentService) Fact(now time.Time) string {
	args := m.Called(now)
	return args.String(0)
}

type MockHomeService struct {
	mock.Mock
}

func (m *MockHomeService) Home(ctx context.Context, now time.Time) (*service.Home, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Home), args.Error(1)
}
