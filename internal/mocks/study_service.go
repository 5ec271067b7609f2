package mocks

import (
	"context"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/domain/study"
	"github.com/p-devianne/flashmind/internal/service"
)

// MockStudyService implements service.StudyService for testing.
type MockStudyService struct {
	StartFn          func(ctx context.Context, topicID string, mode study.Mode) (service.SessionState, error)
	GetFn            func(ctx context.Context, sessionID string) (service.SessionState, error)
	FlipFn           func(ctx context.Context, sessionID string) (service.SessionState, error)
	SubmitFeedbackFn func(ctx context.Context, sessionID string, feedback domain.Feedback) (service.FeedbackResult, error)
	SkipFn           func(ctx context.Context, sessionID string) (service.SessionState, bool, error)
	SetModeFn        func(ctx context.Context, sessionID string, mode study.Mode) (service.SessionState, error)
	EndFn            func(ctx context.Context, sessionID string) (service.SessionState, error)

	State        service.SessionState
	Result       service.FeedbackResult
	DefaultError error
}

var _ service.StudyService = (*MockStudyService)(nil)

// Start implements service.StudyService.
func (m *MockStudyService) Start(ctx context.Context, topicID string, mode study.Mode) (service.SessionState, error) {
	if m.StartFn != nil {
		return m.StartFn(ctx, topicID, mode)
	}
	return m.State, m.DefaultError
}

// Get implements service.StudyService.
func (m *MockStudyService) Get(ctx context.Context, sessionID string) (service.SessionState, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, sessionID)
	}
	return m.State, m.DefaultError
}

// Flip implements service.StudyService.
func (m *MockStudyService) Flip(ctx context.Context, sessionID string) (service.SessionState, error) {
	if m.FlipFn != nil {
		return m.FlipFn(ctx, sessionID)
	}
	return m.State, m.DefaultError
}

// SubmitFeedback implements service.StudyService.
func (m *MockStudyService) SubmitFeedback(
	ctx context.Context,
	sessionID string,
	feedback domain.Feedback,
) (service.FeedbackResult, error) {
	if m.SubmitFeedbackFn != nil {
		return m.SubmitFeedbackFn(ctx, sessionID, feedback)
	}
	return m.Result, m.DefaultError
}

// Skip implements service.StudyService.
func (m *MockStudyService) Skip(ctx context.Context, sessionID string) (service.SessionState, bool, error) {
	if m.SkipFn != nil {
		return m.SkipFn(ctx, sessionID)
	}
	return m.State, false, m.DefaultError
}

// SetMode implements service.StudyService.
func (m *MockStudyService) SetMode(ctx context.Context, sessionID string, mode study.Mode) (service.SessionState, error) {
	if m.SetModeFn != nil {
		return m.SetModeFn(ctx, sessionID, mode)
	}
	return m.State, m.DefaultError
}

// End implements service.StudyService.
func (m *MockStudyService) End(ctx context.Context, sessionID string) (service.SessionState, error) {
	if m.EndFn != nil {
		return m.EndFn(ctx, sessionID)
	}
	return m.State, m.DefaultError
}
