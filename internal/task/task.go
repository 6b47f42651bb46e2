package task

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
)

// Common errors returned by the task package
var (
	ErrQueueFull  = errors.New("task queue is full")
	ErrPoolClosed = errors.New("chapter pool is closed")
	ErrNilTracker = errors.New("tracker cannot be nil")
	ErrNilWriter  = errors.New("writer cannot be nil")
	ErrNilStore   = errors.New("store cannot be nil")
	ErrNilLogger  = errors.New("logger cannot be nil")
)

// Task is a unit of background generation work. The task's record is
// created by the submitting service before the task reaches the
// runner; Execute only reports progress against that record.
type Task interface {
	// ID returns the task's unique identifier, shared with its
	// progress record.
	ID() uuid.UUID

	// Type returns the task type.
	Type() domain.TaskType

	// OwnerID returns the user the task belongs to.
	OwnerID() uuid.UUID

	// Execute runs the task logic. A non-nil error marks the task
	// record failed; nil marks it completed.
	Execute(ctx context.Context) error
}

// ArticleTaskPayload is the event payload for article generation requests.
type ArticleTaskPayload struct {
	TaskID       uuid.UUID `json:"task_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Topic        string    `json:"topic"`
	Description  string    `json:"description,omitempty"`
	Links        []string  `json:"links,omitempty"`
	EnableSearch bool      `json:"enable_search"`
}

// DocumentTaskPayload is the event payload for document generation requests.
type DocumentTaskPayload struct {
	TaskID  uuid.UUID      `json:"task_id"`
	Outline domain.Outline `json:"outline"`
}
