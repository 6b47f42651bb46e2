package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/store"
)

func storedDocument(t *testing.T, documents *memDocumentStore, articles *memArticleStore, ownerID uuid.UUID) *domain.Document {
	t.Helper()
	ctx := context.Background()

	outline, err := domain.NewOutline(ownerID, "golang", "Go Study Guide", "", []domain.ChapterSpec{
		{ID: 1, Title: "Basics"},
		{ID: 2, Title: "Concurrency"},
	})
	require.NoError(t, err)

	doc, err := domain.NewDocument(ownerID, outline, []domain.ChapterResult{
		{ID: 1, Title: "Basics", Content: "…", Status: domain.ChapterStatusSuccess},
		{ID: 2, Title: "Concurrency", Content: "…", Status: domain.ChapterStatusSuccess},
	})
	require.NoError(t, err)
	require.NoError(t, documents.Create(ctx, doc))

	for _, ch := range doc.Chapters {
		require.NoError(t, articles.Create(ctx, doc.ChapterArticle(ch)))
	}
	return doc
}

func TestDocumentServiceGetAndList(t *testing.T) {
	ctx := context.Background()
	documents := newMemDocumentStore()
	articles := newMemArticleStore()
	svc, err := NewDocumentService(nil, documents, articles, testServiceLogger())
	require.NoError(t, err)

	ownerID := uuid.New()
	doc := storedDocument(t, documents, articles, ownerID)

	got, err := svc.GetDocument(ctx, ownerID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Len(t, got.Chapters, 2)

	_, err = svc.GetDocument(ctx, uuid.New(), doc.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	listed, err := svc.ListDocuments(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestDocumentServiceDeleteRemovesChapterArticles(t *testing.T) {
	ctx := context.Background()
	documents := newMemDocumentStore()
	articles := newMemArticleStore()
	svc, err := NewDocumentService(nil, documents, articles, testServiceLogger())
	require.NoError(t, err)

	ownerID := uuid.New()
	doc := storedDocument(t, documents, articles, ownerID)
	standalone := storedArticle(t, articles, ownerID)

	require.NoError(t, svc.DeleteDocument(ctx, ownerID, doc.ID))

	_, err = documents.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	remaining, err := articles.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, standalone.ID, remaining[0].ID)
}

func TestDocumentServiceBatchDelete(t *testing.T) {
	ctx := context.Background()
	documents := newMemDocumentStore()
	articles := newMemArticleStore()
	svc, err := NewDocumentService(nil, documents, articles, testServiceLogger())
	require.NoError(t, err)

	ownerID := uuid.New()
	first := storedDocument(t, documents, articles, ownerID)
	second := storedDocument(t, documents, articles, ownerID)

	deleted, err := svc.DeleteDocuments(ctx, ownerID, []string{first.ID, second.ID, "missing1"})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
	assert.Equal(t, 2, deleted)
}
