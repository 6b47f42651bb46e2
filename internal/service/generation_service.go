package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/events"
	"github.com/learnflow/learnflow-api/internal/store"
	"github.com/learnflow/learnflow-api/internal/task"
)

// TaskTracker records task lifecycle state for status polling. It is
// implemented by task.Tracker.
type TaskTracker interface {
	// Create durably registers a new pending task.
	Create(ctx context.Context, t *domain.GenerationTask) error

	// GetStatus returns the current snapshot of a task.
	GetStatus(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error)
}

// GenerationService submits asynchronous generation work and answers
// task status queries. Submission registers a pending task record first,
// so the client can poll the returned task ID immediately, then emits a
// request event consumed by the background task machinery.
type GenerationService interface {
	// GenerateArticle submits an article generation task.
	GenerateArticle(
		ctx context.Context,
		ownerID uuid.UUID,
		topic, description string,
		links []string,
		enableSearch bool,
	) (*domain.GenerationTask, error)

	// GenerateDocument submits a document generation task for a
	// previously created outline.
	GenerateDocument(ctx context.Context, ownerID, outlineID uuid.UUID) (*domain.GenerationTask, error)

	// GetTask returns the status snapshot of one of the owner's tasks.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.GenerationTask, error)

	// ListTasks retrieves the owner's task records, newest first.
	ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationTask, error)
}

type generationServiceImpl struct {
	tracker  TaskTracker
	tasks    store.TaskStore
	outlines store.OutlineStore
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	tracker TaskTracker,
	tasks store.TaskStore,
	outlines store.OutlineStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (GenerationService, error) {
	if tracker == nil {
		return nil, fmt.Errorf("tracker cannot be nil")
	}
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if outlines == nil {
		return nil, fmt.Errorf("outline store cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		tracker:  tracker,
		tasks:    tasks,
		outlines: outlines,
		emitter:  emitter,
		logger:   logger.With("component", "generation_service"),
	}, nil
}

func (s *generationServiceImpl) GenerateArticle(
	ctx context.Context,
	ownerID uuid.UUID,
	topic, description string,
	links []string,
	enableSearch bool,
) (*domain.GenerationTask, error) {
	record, err := domain.NewGenerationTask(ownerID, domain.TaskTypeArticle, topic, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create task record: %w", err)
	}

	payload := task.ArticleTaskPayload{
		TaskID:       record.ID,
		OwnerID:      ownerID,
		Topic:        topic,
		Description:  description,
		Links:        links,
		EnableSearch: enableSearch,
	}

	if err := s.submit(ctx, record, task.EventTypeArticleGeneration, payload); err != nil {
		return nil, err
	}

	s.logger.Info("article generation submitted",
		"task_id", record.ID,
		"user_id", ownerID,
		"topic", topic)

	return record, nil
}

func (s *generationServiceImpl) GenerateDocument(
	ctx context.Context,
	ownerID, outlineID uuid.UUID,
) (*domain.GenerationTask, error) {
	outline, err := s.outlines.GetByID(ctx, outlineID)
	if err != nil {
		return nil, err
	}
	if outline.OwnerID != ownerID {
		return nil, ErrNotOwned
	}

	record, err := domain.NewGenerationTask(ownerID, domain.TaskTypeDocument, outline.Topic, len(outline.Chapters))
	if err != nil {
		return nil, fmt.Errorf("failed to create task record: %w", err)
	}

	payload := task.DocumentTaskPayload{
		TaskID:  record.ID,
		Outline: *outline,
	}

	if err := s.submit(ctx, record, task.EventTypeDocumentGeneration, payload); err != nil {
		return nil, err
	}

	s.logger.Info("document generation submitted",
		"task_id", record.ID,
		"user_id", ownerID,
		"outline_id", outlineID,
		"chapters", len(outline.Chapters))

	return record, nil
}

func (s *generationServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.GenerationTask, error) {
	record, err := s.tracker.GetStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if record.OwnerID != ownerID {
		return nil, ErrNotOwned
	}
	return record, nil
}

func (s *generationServiceImpl) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationTask, error) {
	records, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return records, nil
}

// submit registers the pending record, then emits the request event. A
// record that cannot be registered is not submitted at all.
func (s *generationServiceImpl) submit(
	ctx context.Context,
	record *domain.GenerationTask,
	eventType string,
	payload interface{},
) error {
	if err := s.tracker.Create(ctx, record); err != nil {
		s.logger.Error("failed to register task record",
			"error", err,
			"task_id", record.ID)
		return fmt.Errorf("failed to register task: %w", err)
	}

	event, err := events.NewTaskRequestEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to create task request event",
			"error", err,
			"task_id", record.ID)
		return fmt.Errorf("failed to create task request event: %w", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit task request event",
			"error", err,
			"task_id", record.ID,
			"event_id", event.ID)
		return fmt.Errorf("failed to emit task request event: %w", err)
	}

	return nil
}
