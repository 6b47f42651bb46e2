package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnflow/learnflow-api/internal/domain"
)

// DocumentStore defines the interface for document persistence.
type DocumentStore interface {
	// Create saves a newly assembled document.
	// Returns validation errors from the domain Document if data is invalid.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document by its ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document by ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, id string) error

	// ListByOwner retrieves the owner's documents, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Document, error)

	// WithTx returns a new DocumentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DocumentStore
}
