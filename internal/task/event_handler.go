package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/learnflow/learnflow-api/internal/events"
)

// Event types handled by the task layer.
const (
	EventTypeArticleGeneration  = "article_generation"
	EventTypeDocumentGeneration = "document_generation"
)

// GenerationEventHandler turns task request events into generation
// tasks and submits them to the runner. It decouples the HTTP services
// from the task machinery: services only emit events.
type GenerationEventHandler struct {
	articleFactory  *ArticleTaskFactory
	documentFactory *DocumentTaskFactory
	runner          *Runner
	tracker         *Tracker
	logger          *slog.Logger
}

// NewGenerationEventHandler creates the handler.
func NewGenerationEventHandler(
	articleFactory *ArticleTaskFactory,
	documentFactory *DocumentTaskFactory,
	runner *Runner,
	tracker *Tracker,
	logger *slog.Logger,
) *GenerationEventHandler {
	return &GenerationEventHandler{
		articleFactory:  articleFactory,
		documentFactory: documentFactory,
		runner:          runner,
		tracker:         tracker,
		logger:          logger.With("component", "generation_event_handler"),
	}
}

// HandleEvent builds the task for the event and submits it. When
// submission fails the task record is failed immediately so callers
// polling the status are not left with a record that never settles.
func (h *GenerationEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	var (
		task Task
		err  error
	)

	switch event.Type {
	case EventTypeArticleGeneration:
		var payload ArticleTaskPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal article payload: %w", err)
		}
		task, err = h.articleFactory.CreateTask(payload)

	case EventTypeDocumentGeneration:
		var payload DocumentTaskPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal document payload: %w", err)
		}
		task, err = h.documentFactory.CreateTask(payload)

	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type, "event_id", event.ID)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"task_id", task.ID(), "event_id", event.ID, "error", err)
		h.tracker.MarkFailed(task.ID(), err.Error())
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task submitted",
		"task_id", task.ID(), "task_type", task.Type(), "event_id", event.ID)
	return nil
}

var _ events.EventHandler = (*GenerationEventHandler)(nil)
