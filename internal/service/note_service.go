package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/store"
)

// NoteService manages the question/answer notes users save while
// studying an article.
type NoteService interface {
	// SaveNote stores a question/answer pair against an article.
	SaveNote(ctx context.Context, ownerID uuid.UUID, articleID, question, answer string) (*domain.Note, error)

	// ListNotes retrieves the owner's notes for one article, newest first.
	ListNotes(ctx context.Context, ownerID uuid.UUID, articleID string) ([]*domain.Note, error)

	// DeleteNote removes one of the owner's notes.
	DeleteNote(ctx context.Context, ownerID, noteID uuid.UUID) error
}

type noteServiceImpl struct {
	notes  store.NoteStore
	logger *slog.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes store.NoteStore, logger *slog.Logger) (NoteService, error) {
	if notes == nil {
		return nil, fmt.Errorf("note store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &noteServiceImpl{
		notes:  notes,
		logger: logger.With("component", "note_service"),
	}, nil
}

func (s *noteServiceImpl) SaveNote(
	ctx context.Context,
	ownerID uuid.UUID,
	articleID, question, answer string,
) (*domain.Note, error) {
	note, err := domain.NewNote(ownerID, articleID, question, answer)
	if err != nil {
		return nil, err
	}

	if err := s.notes.Create(ctx, note); err != nil {
		s.logger.Error("failed to save note",
			"error", err,
			"article_id", articleID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	return note, nil
}

func (s *noteServiceImpl) ListNotes(ctx context.Context, ownerID uuid.UUID, articleID string) ([]*domain.Note, error) {
	notes, err := s.notes.ListByArticle(ctx, articleID, ownerID)
	if err != nil {
		s.logger.Error("failed to list notes",
			"error", err,
			"article_id", articleID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, ownerID, noteID uuid.UUID) error {
	if err := s.notes.Delete(ctx, noteID, ownerID); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to delete note",
				"error", err,
				"note_id", noteID,
				"user_id", ownerID)
		}
		return err
	}
	return nil
}
