package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for InterviewQuestion
var (
	ErrEmptyInterviewArticle  = errors.New("interview question article ID cannot be empty")
	ErrEmptyInterviewOwner    = errors.New("interview question owner cannot be empty")
	ErrEmptyInterviewQuestion = errors.New("interview question text cannot be empty")
	ErrInvalidInterviewScore  = errors.New("interview score must be between 0 and 100")
)

// InterviewQuestion is a generated interview question tied to an
// article, optionally holding the user's answer and its model-graded
// evaluation.
type InterviewQuestion struct {
	ID              uuid.UUID `json:"id"`
	ArticleID       string    `json:"article_id"`
	Question        string    `json:"question"`
	ReferenceAnswer string    `json:"reference_answer,omitempty"`
	UserAnswer      string    `json:"user_answer,omitempty"`
	Score           *int      `json:"score,omitempty"`
	Feedback        string    `json:"feedback,omitempty"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewInterviewQuestion creates an unanswered interview question for an
// article.
func NewInterviewQuestion(ownerID uuid.UUID, articleID, question, referenceAnswer string) (*InterviewQuestion, error) {
	q := &InterviewQuestion{
		ID:              uuid.New(),
		ArticleID:       articleID,
		Question:        question,
		ReferenceAnswer: referenceAnswer,
		OwnerID:         ownerID,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

// Validate checks if the InterviewQuestion has valid data.
func (q *InterviewQuestion) Validate() error {
	if q.ArticleID == "" {
		return ErrEmptyInterviewArticle
	}

	if q.OwnerID == uuid.Nil {
		return ErrEmptyInterviewOwner
	}

	if q.Question == "" {
		return ErrEmptyInterviewQuestion
	}

	if q.Score != nil && (*q.Score < 0 || *q.Score > 100) {
		return ErrInvalidInterviewScore
	}

	return nil
}

// RecordAnswer stores the user's answer with its graded evaluation.
func (q *InterviewQuestion) RecordAnswer(answer string, score int, feedback string) error {
	if score < 0 || score > 100 {
		return ErrInvalidInterviewScore
	}

	q.UserAnswer = answer
	q.Score = &score
	q.Feedback = feedback
	q.UpdatedAt = time.Now().UTC()
	return nil
}
