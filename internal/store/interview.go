package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnflow/learnflow-api/internal/domain"
)

// InterviewStore defines the interface for interview question persistence.
type InterviewStore interface {
	// Create saves a new interview question.
	Create(ctx context.Context, question *domain.InterviewQuestion) error

	// GetByID retrieves the owner's interview question by ID.
	// Returns ErrInterviewQuestionNotFound if it does not exist or
	// belongs to a different owner.
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.InterviewQuestion, error)

	// Update saves a recorded answer and its evaluation.
	// Returns ErrInterviewQuestionNotFound if the question does not exist.
	Update(ctx context.Context, question *domain.InterviewQuestion) error

	// Delete removes an interview question owned by the given user.
	// Returns ErrInterviewQuestionNotFound if the question does not exist.
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error

	// ListByArticle retrieves the owner's interview questions for one article.
	ListByArticle(ctx context.Context, articleID string, ownerID uuid.UUID) ([]*domain.InterviewQuestion, error)

	// WithTx returns a new InterviewStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) InterviewStore
}
