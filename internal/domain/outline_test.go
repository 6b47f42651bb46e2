package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChapters() []ChapterSpec {
	return []ChapterSpec{
		{ID: 1, Title: "Introduction", Keywords: []string{"basics"}},
		{ID: 2, Title: "Core Concepts"},
		{ID: 3, Title: "Practice"},
	}
}

func TestNewOutline(t *testing.T) {
	owner := uuid.New()

	t.Run("creates valid outline", func(t *testing.T) {
		outline, err := NewOutline(owner, "Go", "Learning Go", "A guided path", validChapters())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, outline.ID)
		assert.Equal(t, owner, outline.OwnerID)
		assert.Len(t, outline.Chapters, 3)
	})

	t.Run("zero chapters is valid", func(t *testing.T) {
		outline, err := NewOutline(owner, "Go", "Learning Go", "", nil)
		require.NoError(t, err)
		assert.Empty(t, outline.Chapters)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewOutline(owner, "Go", "", "", validChapters())
		assert.ErrorIs(t, err, ErrEmptyOutlineTitle)
	})

	t.Run("rejects duplicate chapter ids", func(t *testing.T) {
		chapters := []ChapterSpec{
			{ID: 1, Title: "a"},
			{ID: 1, Title: "b"},
		}
		_, err := NewOutline(owner, "Go", "Learning Go", "", chapters)
		assert.ErrorIs(t, err, ErrChaptersOutOfOrder)
	})

	t.Run("rejects non-positive chapter ids", func(t *testing.T) {
		_, err := NewOutline(owner, "Go", "Learning Go", "", []ChapterSpec{{ID: 0, Title: "a"}})
		assert.ErrorIs(t, err, ErrInvalidChapterID)
	})
}

func TestReplaceChapters(t *testing.T) {
	owner := uuid.New()
	outline, err := NewOutline(owner, "Go", "Learning Go", "", validChapters())
	require.NoError(t, err)

	t.Run("accepts a valid edit", func(t *testing.T) {
		err := outline.ReplaceChapters([]ChapterSpec{{ID: 1, Title: "Only chapter"}})
		require.NoError(t, err)
		assert.Len(t, outline.Chapters, 1)
	})

	t.Run("keeps old chapters on invalid edit", func(t *testing.T) {
		err := outline.ReplaceChapters([]ChapterSpec{{ID: 2, Title: ""}})
		require.Error(t, err)
		assert.Len(t, outline.Chapters, 1)
		assert.Equal(t, "Only chapter", outline.Chapters[0].Title)
	})
}

func TestNewDocumentSortsChapters(t *testing.T) {
	owner := uuid.New()
	outline, err := NewOutline(owner, "Go", "Learning Go", "", validChapters())
	require.NoError(t, err)

	// Arrival order differs from declared order.
	results := []ChapterResult{
		{ID: 3, Title: "Practice", Content: "c3", Status: ChapterStatusSuccess},
		{ID: 1, Title: "Introduction", Content: "c1", Status: ChapterStatusSuccess},
		{ID: 2, Title: "Core Concepts", Content: "generation failed: boom", Status: ChapterStatusFailed},
	}

	doc, err := NewDocument(owner, outline, results)
	require.NoError(t, err)

	require.Len(t, doc.Chapters, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{doc.Chapters[0].ID, doc.Chapters[1].ID, doc.Chapters[2].ID})
	assert.Equal(t, 1, doc.FailedChapterCount())
}

func TestChapterArticleKey(t *testing.T) {
	owner := uuid.New()
	outline, err := NewOutline(owner, "Go", "Learning Go", "", validChapters()[:1])
	require.NoError(t, err)

	doc, err := NewDocument(owner, outline, []ChapterResult{
		{ID: 1, Title: "Introduction", Content: "c1", Status: ChapterStatusSuccess},
	})
	require.NoError(t, err)

	article := doc.ChapterArticle(doc.Chapters[0])
	assert.Equal(t, doc.ID+"-1", article.ID)
	assert.Equal(t, ArticleTypeChapter, article.Type)
	assert.Equal(t, doc.ID, article.DocumentID)
	assert.Equal(t, owner, article.OwnerID)
}
