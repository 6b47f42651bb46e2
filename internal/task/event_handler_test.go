package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/events"
	"github.com/learnflow/learnflow-api/internal/generation"
)

func handlerFixture(t *testing.T) (*GenerationEventHandler, *Tracker, *memoryArticleStore, *memoryDocumentStore) {
	t.Helper()

	tracker := startTracker(t, newMemoryTaskStore(), 100)
	pool := NewChapterPool(2, testLogger())
	t.Cleanup(pool.Stop)

	articles := newMemoryArticleStore()
	documents := newMemoryDocumentStore()

	articleWriter := &articleStub{draft: &generation.ArticleDraft{Title: "T", Content: "c"}}
	chapterWriter := newChapterStub()

	articleFactory := NewArticleTaskFactory(articleWriter, articles, tracker, nil, testLogger())
	documentFactory := NewDocumentTaskFactory(
		chapterWriter, nil, documents, articles, tracker, pool, nil, DefaultRetryPolicy(), testLogger(),
	)

	runner, err := NewRunner(tracker, RunnerConfig{WorkerCount: 2, QueueSize: 10}, testLogger())
	require.NoError(t, err)
	require.NoError(t, runner.Start(context.Background()))
	t.Cleanup(runner.Stop)

	handler := NewGenerationEventHandler(articleFactory, documentFactory, runner, tracker, testLogger())
	return handler, tracker, articles, documents
}

func TestGenerationEventHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("handles article generation events end to end", func(t *testing.T) {
		handler, tracker, articles, _ := handlerFixture(t)

		record, err := domain.NewGenerationTask(uuid.New(), domain.TaskTypeArticle, "go channels", 0)
		require.NoError(t, err)
		require.NoError(t, tracker.Create(ctx, record))

		payload := ArticleTaskPayload{TaskID: record.ID, OwnerID: record.OwnerID, Topic: "go channels"}
		event, err := events.NewTaskRequestEvent(EventTypeArticleGeneration, payload)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(ctx, event))
		waitForStatus(t, tracker, record.ID, domain.TaskStatusCompleted)

		saved, err := articles.ListByOwner(ctx, record.OwnerID)
		require.NoError(t, err)
		assert.Len(t, saved, 1)
	})

	t.Run("handles document generation events end to end", func(t *testing.T) {
		handler, tracker, _, documents := handlerFixture(t)

		outline := testOutline(t, 3)
		record, err := domain.NewGenerationTask(outline.OwnerID, domain.TaskTypeDocument, outline.Topic, len(outline.Chapters))
		require.NoError(t, err)
		require.NoError(t, tracker.Create(ctx, record))

		payload := DocumentTaskPayload{TaskID: record.ID, Outline: outline}
		event, err := events.NewTaskRequestEvent(EventTypeDocumentGeneration, payload)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(ctx, event))
		got := waitForStatus(t, tracker, record.ID, domain.TaskStatusCompleted)
		assert.Equal(t, 3, got.Completed)

		saved, err := documents.ListByOwner(ctx, outline.OwnerID)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Len(t, saved[0].Chapters, 3)
	})

	t.Run("ignores unknown event types", func(t *testing.T) {
		handler, _, _, _ := handlerFixture(t)

		event, err := events.NewTaskRequestEvent("something_else", map[string]string{})
		require.NoError(t, err)
		assert.NoError(t, handler.HandleEvent(ctx, event))
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		handler, _, _, _ := handlerFixture(t)

		event, err := events.NewTaskRequestEvent(EventTypeArticleGeneration, "not an object")
		require.NoError(t, err)
		assert.Error(t, handler.HandleEvent(ctx, event))
	})

	t.Run("fails the record when the queue is full", func(t *testing.T) {
		tracker := startTracker(t, newMemoryTaskStore(), 100)
		articles := newMemoryArticleStore()
		articleWriter := &articleStub{draft: &generation.ArticleDraft{Title: "T", Content: "c"}}
		articleFactory := NewArticleTaskFactory(articleWriter, articles, tracker, nil, testLogger())

		// Runner is never started, and its queue holds a single task.
		runner, err := NewRunner(tracker, RunnerConfig{WorkerCount: 1, QueueSize: 1}, testLogger())
		require.NoError(t, err)
		t.Cleanup(runner.Stop)
		handler := NewGenerationEventHandler(articleFactory, nil, runner, tracker, testLogger())

		submitOne := func() (*domain.GenerationTask, error) {
			record, err := domain.NewGenerationTask(uuid.New(), domain.TaskTypeArticle, "topic", 0)
			require.NoError(t, err)
			require.NoError(t, tracker.Create(ctx, record))
			event, err := events.NewTaskRequestEvent(EventTypeArticleGeneration,
				ArticleTaskPayload{TaskID: record.ID, OwnerID: record.OwnerID, Topic: "topic"})
			require.NoError(t, err)
			return record, handler.HandleEvent(ctx, event)
		}

		_, err = submitOne()
		require.NoError(t, err)

		overflow, err := submitOne()
		require.Error(t, err)

		tracker.Sync()
		got, statusErr := tracker.GetStatus(ctx, overflow.ID)
		require.NoError(t, statusErr)
		assert.Equal(t, domain.TaskStatusFailed, got.Status)
	})
}
