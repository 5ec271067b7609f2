package mocks

import (
	"context"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/service"
)

// MockTopicService implements service.TopicService for testing.
type MockTopicService struct {
	CreateFn func(ctx context.Context, name, emoji string) (*domain.Topic, error)
	GetFn    func(ctx context.Context, id string) (*service.TopicDetail, error)
	ListFn   func(ctx context.Context) ([]service.TopicDetail, error)
	UpdateFn func(ctx context.Context, id, name, emoji string) (*domain.Topic, error)
	DeleteFn func(ctx context.Context, id string) error

	Topic        *domain.Topic
	Details      []service.TopicDetail
	DefaultError error
}

var _ service.TopicService = (*MockTopicService)(nil)

// Create implements service.TopicService.
func (m *MockTopicService) Create(ctx context.Context, name, emoji string) (*domain.Topic, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, name, emoji)
	}
	return m.Topic, m.DefaultError
}

// Get implements service.TopicService.
func (m *MockTopicService) Get(ctx context.Context, id string) (*service.TopicDetail, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	if m.Topic == nil {
		return nil, m.DefaultError
	}
	return &service.TopicDetail{Topic: *m.Topic}, m.DefaultError
}

// List implements service.TopicService.
func (m *MockTopicService) List(ctx context.Context) ([]service.TopicDetail, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Details, m.DefaultError
}

// Update implements service.TopicService.
func (m *MockTopicService) Update(ctx context.Context, id, name, emoji string) (*domain.Topic, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, name, emoji)
	}
	return m.Topic, m.DefaultError
}

// Delete implements service.TopicService.
func (m *MockTopicService) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}
