package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnflow/learnflow-api/internal/domain"
)

// OutlineStore defines the interface for outline persistence.
type OutlineStore interface {
	// Create saves a new outline.
	// Returns validation errors from the domain Outline if data is invalid.
	Create(ctx context.Context, outline *domain.Outline) error

	// GetByID retrieves an outline by its unique ID.
	// Returns ErrOutlineNotFound if the outline does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Outline, error)

	// Update saves an edited chapter list for an existing outline.
	// Returns ErrOutlineNotFound if the outline does not exist.
	Update(ctx context.Context, outline *domain.Outline) error

	// ListByOwner retrieves the owner's outlines, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Outline, error)

	// WithTx returns a new OutlineStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) OutlineStore
}
