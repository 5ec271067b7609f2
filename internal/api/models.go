package api

import (
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
	"github.com/p-devianne/flashmind/internal/service"
)

// PassCompleteMessage accompanies the feedback that finishes a pass.
const PassCompleteMessage = "Session complete! Starting over..."

// TopicRequest is the body of POST /api/topics and PUT /api/topics/{id}.
type TopicRequest struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Emoji string `json:"emoji" validate:"omitempty,max=32"`
}

// TopicResponse describes a topic. The statistics are only present on
// list and get.
type TopicResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Emoji       string    `json:"emoji"`
	CardCount   *int      `json:"card_count,omitempty"`
	SuccessRate *int      `json:"success_rate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CardRequest is the body of card create and update requests.
type CardRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

// CardResponse describes a card.
type CardResponse struct {
	ID        string    `json:"id"`
	TopicID   string    `json:"topic_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StartSessionRequest is the body of POST /api/sessions.
type StartSessionRequest struct {
	TopicID string `json:"topic_id" validate:"required"`
	Mode    string `json:"mode"     validate:"omitempty,oneof=random focus"`
}

// FeedbackRequest is the body of POST /api/sessions/{id}/feedback.
// Feedback is parsed with domain.ParseFeedback.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// ModeRequest is the body of PUT /api/sessions/{id}/mode.
type ModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=random focus"`
}

// SessionCard is the card on screen. Answer is withheld until flipped.
type SessionCard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Score    int    `json:"score"`
}

// SessionResponse describes a study session.
type SessionResponse struct {
	ID       string      `json:"id"`
	TopicID  string      `json:"topic_id"`
	Mode     string      `json:"mode"`
	Position int         `json:"position"`
	Total    int         `json:"total"`
	Passes   int         `json:"passes"`
	Flipped  bool        `json:"flipped"`
	Reviewed int         `json:"reviewed"`
	Card     SessionCard `json:"card"`
}

// AdvanceResponse is returned by feedback and skip.
type AdvanceResponse struct {
	Scored        *CardResponse   `json:"scored,omitempty"`
	PassCompleted bool            `json:"pass_completed"`
	Message       string          `json:"message,omitempty"`
	Session       SessionResponse `json:"session"`
}

// ImportResponse reports what an import added.
type ImportResponse struct {
	TopicsImported int `json:"topics_imported"`
	CardsImported  int `json:"cards_imported"`
	Skipped        int `json:"skipped"`
}

func topicToResponse(t *domain.Topic) TopicResponse {
	return TopicResponse{
		ID:        t.ID,
		Name:      t.Name,
		Emoji:     t.Emoji,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func topicDetailToResponse(d *service.TopicDetail) TopicResponse {
	resp := topicToResponse(&d.Topic)
	count, rate := d.CardCount, d.SuccessRate
	resp.CardCount = &count
	resp.SuccessRate = &rate
	return resp
}

func cardToResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:        c.ID,
		TopicID:   c.TopicID,
		Question:  c.Question,
		Answer:    c.Answer,
		Score:     c.Score,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func sessionToResponse(s service.SessionState) SessionResponse {
	card := SessionCard{
		ID:       s.Card.ID,
		Question: s.Card.Question,
		Score:    s.Card.Score,
	}
	if s.Flipped {
		card.Answer = s.Card.Answer
	}
	return SessionResponse{
		ID:       s.ID,
		TopicID:  s.TopicID,
		Mode:     string(s.Mode),
		Position: s.Position,
		Total:    s.Total,
		Passes:   s.Passes,
		Flipped:  s.Flipped,
		Reviewed: s.Reviewed,
		Card:     card,
	}
}

func advanceResponse(scored *domain.Card, passCompleted bool, state service.SessionState) AdvanceResponse {
	resp := AdvanceResponse{
		PassCompleted: passCompleted,
		Session:       sessionToResponse(state),
	}
	if scored != nil {
		c := cardToResponse(scored)
		resp.Scored = &c
	}
	if passCompleted {
		resp.Message = PassCompleteMessage
	}
	return resp
}
