package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

type interviewFixture struct {
	svc        InterviewService
	interviews *memInterviewStore
	articles   *memArticleStore
	assistant  *stubAssistant
}

func newInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()
	f := &interviewFixture{
		interviews: newMemInterviewStore(),
		articles:   newMemArticleStore(),
		assistant: &stubAssistant{
			drafts: []generation.QuestionDraft{
				{Question: "What is a goroutine?", ReferenceAnswer: "A lightweight thread."},
				{Question: "What does select do?", ReferenceAnswer: "Waits on multiple channel operations."},
			},
			grade: &generation.Grade{Score: 80, Feedback: "Mostly right."},
		},
	}
	svc, err := NewInterviewService(f.interviews, f.articles, f.assistant, testServiceLogger())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestInterviewServiceGenerate(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t)
	ownerID := uuid.New()
	article := storedArticle(t, f.articles, ownerID)

	questions, err := f.svc.GenerateQuestions(ctx, ownerID, article.ID, 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "What is a goroutine?", questions[0].Question)
	assert.Equal(t, article.Content, f.assistant.lastContent)

	listed, err := f.svc.ListQuestions(ctx, ownerID, article.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestInterviewServiceGenerateRejections(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t)
	ownerID := uuid.New()

	t.Run("unknown_article", func(t *testing.T) {
		_, err := f.svc.GenerateQuestions(ctx, ownerID, "missing1", 2)
		assert.ErrorIs(t, err, store.ErrArticleNotFound)
	})

	t.Run("foreign_article", func(t *testing.T) {
		article := storedArticle(t, f.articles, uuid.New())
		_, err := f.svc.GenerateQuestions(ctx, ownerID, article.ID, 2)
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("assistant_failure", func(t *testing.T) {
		article := storedArticle(t, f.articles, ownerID)
		f.assistant.err = errors.New("model unavailable")
		defer func() { f.assistant.err = nil }()
		_, err := f.svc.GenerateQuestions(ctx, ownerID, article.ID, 2)
		assert.Error(t, err)
	})
}

func TestInterviewServiceAnswer(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t)
	ownerID := uuid.New()
	article := storedArticle(t, f.articles, ownerID)

	questions, err := f.svc.GenerateQuestions(ctx, ownerID, article.ID, 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	graded, err := f.svc.AnswerQuestion(ctx, ownerID, questions[0].ID, "Goroutines are cheap threads.")
	require.NoError(t, err)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 80, *graded.Score)
	assert.Equal(t, "Mostly right.", graded.Feedback)
	assert.Equal(t, "Goroutines are cheap threads.", graded.UserAnswer)

	saved, err := f.interviews.GetByID(ctx, questions[0].ID, ownerID)
	require.NoError(t, err)
	require.NotNil(t, saved.Score)
	assert.Equal(t, 80, *saved.Score)

	_, err = f.svc.AnswerQuestion(ctx, uuid.New(), questions[0].ID, "answer")
	assert.ErrorIs(t, err, store.ErrInterviewQuestionNotFound)
}

func TestInterviewServiceRegenerate(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t)
	ownerID := uuid.New()
	article := storedArticle(t, f.articles, ownerID)

	first, err := f.svc.GenerateQuestions(ctx, ownerID, article.ID, 2)
	require.NoError(t, err)

	f.assistant.drafts = []generation.QuestionDraft{
		{Question: "How do you stop a goroutine?", ReferenceAnswer: "Signal it via context or channel close."},
	}

	regenerated, err := f.svc.RegenerateQuestions(ctx, ownerID, article.ID, 1)
	require.NoError(t, err)
	require.Len(t, regenerated, 1)

	listed, err := f.svc.ListQuestions(ctx, ownerID, article.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.NotEqual(t, first[0].ID, listed[0].ID)
	assert.Equal(t, "How do you stop a goroutine?", listed[0].Question)
}

func TestInterviewServiceDelete(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t)
	ownerID := uuid.New()
	article := storedArticle(t, f.articles, ownerID)

	questions, err := f.svc.GenerateQuestions(ctx, ownerID, article.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteQuestion(ctx, ownerID, questions[0].ID))
	err = f.svc.DeleteQuestion(ctx, ownerID, questions[0].ID)
	assert.ErrorIs(t, err, store.ErrInterviewQuestionNotFound)
}
