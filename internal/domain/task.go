package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a generation task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskType identifies the shape of work a generation task performs.
type TaskType string

// Possible task type values
const (
	TaskTypeArticle  TaskType = "article"
	TaskTypeDocument TaskType = "document"
)

// Common validation errors for GenerationTask
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner   = errors.New("task owner cannot be empty")
	ErrInvalidTaskType  = errors.New("invalid task type")
	ErrInvalidTaskState = errors.New("invalid task status")
)

// GenerationTask tracks one user-initiated generation request's
// lifecycle: pending -> running -> completed/failed. Steps is an
// append-only, human-readable progress log; Completed/Failed count
// settled chapters for document tasks. Clients poll this record
// through the task status endpoint rather than holding a connection
// open for the duration of a generation run.
type GenerationTask struct {
	ID          uuid.UUID  `json:"id"`
	Type        TaskType   `json:"type"`
	Status      TaskStatus `json:"status"`
	Topic       string     `json:"topic"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CurrentStep string     `json:"current_step"`
	Steps       []string   `json:"steps"`
	Completed   int        `json:"completed"`
	Total       int        `json:"total"`
	Failed      int        `json:"failed"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewGenerationTask creates a pending task for the given owner. Total
// is the number of work units (1 for articles, N chapters for
// documents).
func NewGenerationTask(ownerID uuid.UUID, taskType TaskType, topic string, total int) (*GenerationTask, error) {
	task := &GenerationTask{
		ID:          uuid.New(),
		Type:        taskType,
		Status:      TaskStatusPending,
		Topic:       topic,
		OwnerID:     ownerID,
		CurrentStep: "preparing",
		Total:       total,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the GenerationTask has valid data.
func (t *GenerationTask) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	switch t.Type {
	case TaskTypeArticle, TaskTypeDocument:
	default:
		return ErrInvalidTaskType
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskState
	}

	return nil
}

// Settled reports whether the task has reached a terminal status.
func (t *GenerationTask) Settled() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// Clone returns a deep copy safe to hand to readers while the original
// keeps being mutated by the progress tracker.
func (t *GenerationTask) Clone() *GenerationTask {
	cp := *t
	cp.Steps = make([]string, len(t.Steps))
	copy(cp.Steps, t.Steps)
	return &cp
}

func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}
