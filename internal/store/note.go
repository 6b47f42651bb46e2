package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnflow/learnflow-api/internal/domain"
)

// NoteStore defines the interface for note persistence.
type NoteStore interface {
	// Create saves a new note.
	Create(ctx context.Context, note *domain.Note) error

	// ListByArticle retrieves the owner's notes for one article, newest first.
	ListByArticle(ctx context.Context, articleID string, ownerID uuid.UUID) ([]*domain.Note, error)

	// Delete removes a note owned by the given user.
	// Returns ErrNoteNotFound if the note does not exist or belongs to
	// a different owner.
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error

	// WithTx returns a new NoteStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) NoteStore
}
