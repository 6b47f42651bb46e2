package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/events"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

// In-memory store implementations shared by the service tests.

type memOutlineStore struct {
	mu        sync.Mutex
	outlines  map[uuid.UUID]*domain.Outline
	createErr error
	updateErr error
}

func newMemOutlineStore() *memOutlineStore {
	return &memOutlineStore{outlines: make(map[uuid.UUID]*domain.Outline)}
}

func (s *memOutlineStore) Create(ctx context.Context, outline *domain.Outline) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *outline
	s.outlines[outline.ID] = &copied
	return nil
}

func (s *memOutlineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Outline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	outline, ok := s.outlines[id]
	if !ok {
		return nil, store.ErrOutlineNotFound
	}
	copied := *outline
	return &copied, nil
}

func (s *memOutlineStore) Update(ctx context.Context, outline *domain.Outline) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.outlines[outline.ID]; !ok {
		return store.ErrOutlineNotFound
	}
	copied := *outline
	s.outlines[outline.ID] = &copied
	return nil
}

func (s *memOutlineStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Outline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.Outline{}
	for _, outline := range s.outlines {
		if outline.OwnerID == ownerID {
			copied := *outline
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memOutlineStore) WithTx(tx *sql.Tx) store.OutlineStore { return s }

type memArticleStore struct {
	mu       sync.Mutex
	articles map[string]*domain.Article
}

func newMemArticleStore() *memArticleStore {
	return &memArticleStore{articles: make(map[string]*domain.Article)}
}

func (s *memArticleStore) Create(ctx context.Context, article *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *article
	s.articles[article.ID] = &copied
	return nil
}

func (s *memArticleStore) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	article, ok := s.articles[id]
	if !ok {
		return nil, store.ErrArticleNotFound
	}
	copied := *article
	return &copied, nil
}

func (s *memArticleStore) Update(ctx context.Context, article *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[article.ID]; !ok {
		return store.ErrArticleNotFound
	}
	copied := *article
	s.articles[article.ID] = &copied
	return nil
}

func (s *memArticleStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return store.ErrArticleNotFound
	}
	delete(s.articles, id)
	return nil
}

func (s *memArticleStore) DeleteByDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, article := range s.articles {
		if article.DocumentID == documentID {
			delete(s.articles, id)
		}
	}
	return nil
}

func (s *memArticleStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.Article{}
	for _, article := range s.articles {
		if article.OwnerID == ownerID {
			copied := *article
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memArticleStore) WithTx(tx *sql.Tx) store.ArticleStore { return s }

type memDocumentStore struct {
	mu        sync.Mutex
	documents map[string]*domain.Document
}

func newMemDocumentStore() *memDocumentStore {
	return &memDocumentStore{documents: make(map[string]*domain.Document)}
}

func (s *memDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *doc
	s.documents[doc.ID] = &copied
	return nil
}

func (s *memDocumentStore) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *memDocumentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return store.ErrDocumentNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *memDocumentStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.Document{}
	for _, doc := range s.documents {
		if doc.OwnerID == ownerID {
			copied := *doc
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore { return s }

type memNoteStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*domain.Note
}

func newMemNoteStore() *memNoteStore {
	return &memNoteStore{notes: make(map[uuid.UUID]*domain.Note)}
}

func (s *memNoteStore) Create(ctx context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s *memNoteStore) ListByArticle(ctx context.Context, articleID string, ownerID uuid.UUID) ([]*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.Note{}
	for _, note := range s.notes {
		if note.ArticleID == articleID && note.OwnerID == ownerID {
			copied := *note
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memNoteStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok || note.OwnerID != ownerID {
		return store.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *memNoteStore) WithTx(tx *sql.Tx) store.NoteStore { return s }

type memInterviewStore struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*domain.InterviewQuestion
}

func newMemInterviewStore() *memInterviewStore {
	return &memInterviewStore{questions: make(map[uuid.UUID]*domain.InterviewQuestion)}
}

func (s *memInterviewStore) Create(ctx context.Context, question *domain.InterviewQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *question
	s.questions[question.ID] = &copied
	return nil
}

func (s *memInterviewStore) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.InterviewQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	if !ok || question.OwnerID != ownerID {
		return nil, store.ErrInterviewQuestionNotFound
	}
	copied := *question
	return &copied, nil
}

func (s *memInterviewStore) Update(ctx context.Context, question *domain.InterviewQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[question.ID]; !ok {
		return store.ErrInterviewQuestionNotFound
	}
	copied := *question
	s.questions[question.ID] = &copied
	return nil
}

func (s *memInterviewStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	if !ok || question.OwnerID != ownerID {
		return store.ErrInterviewQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *memInterviewStore) ListByArticle(ctx context.Context, articleID string, ownerID uuid.UUID) ([]*domain.InterviewQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.InterviewQuestion{}
	for _, question := range s.questions {
		if question.ArticleID == articleID && question.OwnerID == ownerID {
			copied := *question
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memInterviewStore) WithTx(tx *sql.Tx) store.InterviewStore { return s }

type memServiceTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.GenerationTask
}

func newMemServiceTaskStore() *memServiceTaskStore {
	return &memServiceTaskStore{tasks: make(map[uuid.UUID]*domain.GenerationTask)}
}

func (s *memServiceTaskStore) Create(ctx context.Context, task *domain.GenerationTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *memServiceTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (s *memServiceTaskStore) Update(ctx context.Context, task *domain.GenerationTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *memServiceTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.GenerationTask{}
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			result = append(result, task.Clone())
		}
	}
	return result, nil
}

func (s *memServiceTaskStore) ListUnsettled(ctx context.Context) ([]*domain.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.GenerationTask{}
	for _, task := range s.tasks {
		if task.Status == domain.TaskStatusPending || task.Status == domain.TaskStatusRunning {
			result = append(result, task.Clone())
		}
	}
	return result, nil
}

func (s *memServiceTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

// stubTracker records task registrations without background machinery.
type stubTracker struct {
	mu        sync.Mutex
	records   map[uuid.UUID]*domain.GenerationTask
	createErr error
}

func newStubTracker() *stubTracker {
	return &stubTracker{records: make(map[uuid.UUID]*domain.GenerationTask)}
}

func (t *stubTracker) Create(ctx context.Context, task *domain.GenerationTask) error {
	if t.createErr != nil {
		return t.createErr
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[task.ID] = task.Clone()
	return nil
}

func (t *stubTracker) GetStatus(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	task, ok := t.records[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// stubEmitter collects emitted events.
type stubEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
	err    error
}

func (e *stubEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

// stubOutlineWriter returns a canned outline draft.
type stubOutlineWriter struct {
	draft           *generation.OutlineDraft
	err             error
	lastTopic       string
	lastDescription string
}

func (w *stubOutlineWriter) WriteOutline(ctx context.Context, topic, description string) (*generation.OutlineDraft, error) {
	w.lastTopic = topic
	w.lastDescription = description
	if w.err != nil {
		return nil, w.err
	}
	return w.draft, nil
}

// stubAssistant returns canned answers, questions, and grades.
type stubAssistant struct {
	answer       string
	drafts       []generation.QuestionDraft
	grade        *generation.Grade
	err          error
	lastContent  string
	lastQuestion string
}

func (a *stubAssistant) Answer(ctx context.Context, articleContent, question string) (string, error) {
	a.lastContent = articleContent
	a.lastQuestion = question
	if a.err != nil {
		return "", a.err
	}
	return a.answer, nil
}

func (a *stubAssistant) WriteInterviewQuestions(ctx context.Context, articleContent string, count int) ([]generation.QuestionDraft, error) {
	a.lastContent = articleContent
	if a.err != nil {
		return nil, a.err
	}
	if len(a.drafts) > count {
		return a.drafts[:count], nil
	}
	return a.drafts, nil
}

func (a *stubAssistant) GradeAnswer(ctx context.Context, question, referenceAnswer, userAnswer string) (*generation.Grade, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.grade, nil
}
