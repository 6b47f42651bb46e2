package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnflow/learnflow-api/internal/domain"
)

// TaskStore defines the interface for generation task persistence.
// This is the durable tier of task status: authoritative once a task
// settles, consulted whenever the in-memory tier has no copy.
type TaskStore interface {
	// Create saves a new task record.
	// Returns validation errors from the domain GenerationTask if data is invalid.
	Create(ctx context.Context, task *domain.GenerationTask) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error)

	// Update writes the mutable fields (status, current step, steps log,
	// counters, error) of an existing task from the given snapshot.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.GenerationTask) error

	// ListByOwner retrieves the owner's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationTask, error)

	// ListUnsettled retrieves all tasks still in pending or running
	// state, oldest first. Used at startup to fail records orphaned by
	// a previous run.
	ListUnsettled(ctx context.Context) ([]*domain.GenerationTask, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
