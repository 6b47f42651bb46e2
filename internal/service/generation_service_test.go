package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/store"
	"github.com/learnflow/learnflow-api/internal/task"
)

type generationFixture struct {
	svc      GenerationService
	tracker  *stubTracker
	tasks    *memServiceTaskStore
	outlines *memOutlineStore
	emitter  *stubEmitter
}

func newGenerationFixture(t *testing.T) *generationFixture {
	t.Helper()
	f := &generationFixture{
		tracker:  newStubTracker(),
		tasks:    newMemServiceTaskStore(),
		outlines: newMemOutlineStore(),
		emitter:  &stubEmitter{},
	}
	svc, err := NewGenerationService(f.tracker, f.tasks, f.outlines, f.emitter, testServiceLogger())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *generationFixture) storedOutline(t *testing.T, ownerID uuid.UUID, chapters int) *domain.Outline {
	t.Helper()
	specs := make([]domain.ChapterSpec, 0, chapters)
	for i := 1; i <= chapters; i++ {
		specs = append(specs, domain.ChapterSpec{ID: i, Title: "Chapter"})
	}
	outline, err := domain.NewOutline(ownerID, "golang", "Go Study Guide", "", specs)
	require.NoError(t, err)
	require.NoError(t, f.outlines.Create(context.Background(), outline))
	return outline
}

func TestGenerateArticleSubmission(t *testing.T) {
	ctx := context.Background()
	f := newGenerationFixture(t)
	ownerID := uuid.New()

	record, err := f.svc.GenerateArticle(ctx, ownerID, "go channels", "focus on select", []string{"https://go.dev"}, true)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskTypeArticle, record.Type)
	assert.Equal(t, domain.TaskStatusPending, record.Status)
	assert.Equal(t, 1, record.Total)

	registered, err := f.tracker.GetStatus(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, registered.OwnerID)

	require.Len(t, f.emitter.events, 1)
	event := f.emitter.events[0]
	assert.Equal(t, task.EventTypeArticleGeneration, event.Type)

	var payload task.ArticleTaskPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, record.ID, payload.TaskID)
	assert.Equal(t, "go channels", payload.Topic)
	assert.Equal(t, "focus on select", payload.Description)
	assert.True(t, payload.EnableSearch)
}

func TestGenerateDocumentSubmission(t *testing.T) {
	ctx := context.Background()
	f := newGenerationFixture(t)
	ownerID := uuid.New()
	outline := f.storedOutline(t, ownerID, 4)

	record, err := f.svc.GenerateDocument(ctx, ownerID, outline.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskTypeDocument, record.Type)
	assert.Equal(t, 4, record.Total)

	require.Len(t, f.emitter.events, 1)
	event := f.emitter.events[0]
	assert.Equal(t, task.EventTypeDocumentGeneration, event.Type)

	var payload task.DocumentTaskPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, record.ID, payload.TaskID)
	assert.Equal(t, outline.ID, payload.Outline.ID)
	assert.Len(t, payload.Outline.Chapters, 4)
}

func TestGenerateDocumentRejections(t *testing.T) {
	ctx := context.Background()
	f := newGenerationFixture(t)
	ownerID := uuid.New()

	t.Run("unknown_outline", func(t *testing.T) {
		_, err := f.svc.GenerateDocument(ctx, ownerID, uuid.New())
		assert.ErrorIs(t, err, store.ErrOutlineNotFound)
	})

	t.Run("foreign_outline", func(t *testing.T) {
		outline := f.storedOutline(t, uuid.New(), 2)
		_, err := f.svc.GenerateDocument(ctx, ownerID, outline.ID)
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	assert.Empty(t, f.emitter.events)
}

func TestGenerateDocumentWithEmptyOutline(t *testing.T) {
	ctx := context.Background()
	f := newGenerationFixture(t)
	ownerID := uuid.New()
	outline := f.storedOutline(t, ownerID, 0)

	record, err := f.svc.GenerateDocument(ctx, ownerID, outline.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, record.Total)

	require.Len(t, f.emitter.events, 1)
	var payload task.DocumentTaskPayload
	require.NoError(t, f.emitter.events[0].UnmarshalPayload(&payload))
	assert.Empty(t, payload.Outline.Chapters)
}

func TestSubmissionFailsWhenTrackerFails(t *testing.T) {
	f := newGenerationFixture(t)
	f.tracker.createErr = errors.New("durable store down")

	_, err := f.svc.GenerateArticle(context.Background(), uuid.New(), "go channels", "", nil, false)
	assert.Error(t, err)
	assert.Empty(t, f.emitter.events)
}

func TestGetTask(t *testing.T) {
	ctx := context.Background()
	f := newGenerationFixture(t)
	ownerID := uuid.New()

	record, err := f.svc.GenerateArticle(ctx, ownerID, "go channels", "", nil, false)
	require.NoError(t, err)

	got, err := f.svc.GetTask(ctx, ownerID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = f.svc.GetTask(ctx, uuid.New(), record.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.svc.GetTask(ctx, ownerID, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()
	f := newGenerationFixture(t)
	ownerID := uuid.New()

	record, err := domain.NewGenerationTask(ownerID, domain.TaskTypeArticle, "go channels", 1)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(ctx, record))

	other, err := domain.NewGenerationTask(uuid.New(), domain.TaskTypeArticle, "rust", 1)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(ctx, other))

	listed, err := f.svc.ListTasks(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, record.ID, listed[0].ID)
}
