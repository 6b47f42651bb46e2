package api

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/service/auth"
	"github.com/learnflow/learnflow-api/internal/store"
)

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authedRequest builds a request whose context already carries the user
// ID, bypassing the auth middleware the way a wired router would have
// populated it.
func authedRequest(method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// memUserStore is an in-memory UserStore for handler tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *memUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

var _ store.UserStore = (*memUserStore)(nil)

// stubOutlineService records calls and returns canned outlines.
type stubOutlineService struct {
	outline *domain.Outline
	err     error

	lastTopic    string
	lastFeedback string
	lastChapters []domain.ChapterSpec
}

func (s *stubOutlineService) GenerateOutline(
	_ context.Context,
	_ uuid.UUID,
	topic, _ string,
	_ []string,
	_ bool,
) (*domain.Outline, error) {
	s.lastTopic = topic
	return s.outline, s.err
}

func (s *stubOutlineService) RegenerateOutline(
	_ context.Context,
	_, _ uuid.UUID,
	feedback string,
) (*domain.Outline, error) {
	s.lastFeedback = feedback
	return s.outline, s.err
}

func (s *stubOutlineService) UpdateOutline(
	_ context.Context,
	_, _ uuid.UUID,
	chapters []domain.ChapterSpec,
) (*domain.Outline, error) {
	s.lastChapters = chapters
	return s.outline, s.err
}

func (s *stubOutlineService) GetOutline(_ context.Context, _, _ uuid.UUID) (*domain.Outline, error) {
	return s.outline, s.err
}

func (s *stubOutlineService) ListOutlines(_ context.Context, _ uuid.UUID) ([]*domain.Outline, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Outline{s.outline}, nil
}

// stubGenerationService returns a canned task.
type stubGenerationService struct {
	task *domain.GenerationTask
	err  error

	lastTopic     string
	lastOutlineID uuid.UUID
}

func (s *stubGenerationService) GenerateArticle(
	_ context.Context,
	_ uuid.UUID,
	topic, _ string,
	_ []string,
	_ bool,
) (*domain.GenerationTask, error) {
	s.lastTopic = topic
	return s.task, s.err
}

func (s *stubGenerationService) GenerateDocument(
	_ context.Context,
	_, outlineID uuid.UUID,
) (*domain.GenerationTask, error) {
	s.lastOutlineID = outlineID
	return s.task, s.err
}

func (s *stubGenerationService) GetTask(_ context.Context, _, _ uuid.UUID) (*domain.GenerationTask, error) {
	return s.task, s.err
}

func (s *stubGenerationService) ListTasks(_ context.Context, _ uuid.UUID) ([]*domain.GenerationTask, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.GenerationTask{s.task}, nil
}

// stubArticleService returns canned articles and answers.
type stubArticleService struct {
	article *domain.Article
	answer  string
	deleted int
	err     error

	lastQuestion string
	lastIDs      []string
}

func (s *stubArticleService) GetArticle(_ context.Context, _ uuid.UUID, _ string) (*domain.Article, error) {
	return s.article, s.err
}

func (s *stubArticleService) GetPublicArticle(_ context.Context, _ string) (*domain.Article, error) {
	return s.article, s.err
}

func (s *stubArticleService) ListArticles(_ context.Context, _ uuid.UUID) ([]*domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Article{s.article}, nil
}

func (s *stubArticleService) UpdateArticle(
	_ context.Context,
	_ uuid.UUID,
	_, title, content string,
) (*domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.article
	cp.Title = title
	cp.Content = content
	return &cp, nil
}

func (s *stubArticleService) DeleteArticle(_ context.Context, _ uuid.UUID, _ string) error {
	return s.err
}

func (s *stubArticleService) DeleteArticles(_ context.Context, _ uuid.UUID, ids []string) (int, error) {
	s.lastIDs = ids
	return s.deleted, s.err
}

func (s *stubArticleService) Ask(_ context.Context, _ uuid.UUID, _, question string) (string, error) {
	s.lastQuestion = question
	return s.answer, s.err
}

// stubDocumentService returns canned documents.
type stubDocumentService struct {
	document *domain.Document
	deleted  int
	err      error
}

func (s *stubDocumentService) GetDocument(_ context.Context, _ uuid.UUID, _ string) (*domain.Document, error) {
	return s.document, s.err
}

func (s *stubDocumentService) ListDocuments(_ context.Context, _ uuid.UUID) ([]*domain.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Document{s.document}, nil
}

func (s *stubDocumentService) DeleteDocument(_ context.Context, _ uuid.UUID, _ string) error {
	return s.err
}

func (s *stubDocumentService) DeleteDocuments(_ context.Context, _ uuid.UUID, _ []string) (int, error) {
	return s.deleted, s.err
}

// stubNoteService returns canned notes.
type stubNoteService struct {
	note *domain.Note
	err  error
}

func (s *stubNoteService) SaveNote(
	_ context.Context,
	_ uuid.UUID,
	_, _, _ string,
) (*domain.Note, error) {
	return s.note, s.err
}

func (s *stubNoteService) ListNotes(_ context.Context, _ uuid.UUID, _ string) ([]*domain.Note, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Note{s.note}, nil
}

func (s *stubNoteService) DeleteNote(_ context.Context, _, _ uuid.UUID) error {
	return s.err
}

// stubInterviewService returns canned questions.
type stubInterviewService struct {
	questions []*domain.InterviewQuestion
	err       error

	lastCount  int
	lastAnswer string
}

func (s *stubInterviewService) GenerateQuestions(
	_ context.Context,
	_ uuid.UUID,
	_ string,
	count int,
) ([]*domain.InterviewQuestion, error) {
	s.lastCount = count
	return s.questions, s.err
}

func (s *stubInterviewService) RegenerateQuestions(
	_ context.Context,
	_ uuid.UUID,
	_ string,
	count int,
) ([]*domain.InterviewQuestion, error) {
	s.lastCount = count
	return s.questions, s.err
}

func (s *stubInterviewService) AnswerQuestion(
	_ context.Context,
	_, _ uuid.UUID,
	answer string,
) (*domain.InterviewQuestion, error) {
	s.lastAnswer = answer
	if s.err != nil {
		return nil, s.err
	}
	if len(s.questions) == 0 {
		return nil, store.ErrInterviewQuestionNotFound
	}
	return s.questions[0], nil
}

func (s *stubInterviewService) ListQuestions(
	_ context.Context,
	_ uuid.UUID,
	_ string,
) ([]*domain.InterviewQuestion, error) {
	return s.questions, s.err
}

func (s *stubInterviewService) DeleteQuestion(_ context.Context, _, _ uuid.UUID) error {
	return s.err
}

var _ auth.JWTService = (*stubTokenService)(nil)

// stubTokenService issues a fixed token.
type stubTokenService struct {
	token string
	err   error
}

func (s *stubTokenService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return s.token, s.err
}

func (s *stubTokenService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}
