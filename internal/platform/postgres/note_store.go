package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/platform/logger"
	"github.com/learnflow/learnflow-api/internal/store"
)

// PostgresNoteStore implements the store.NoteStore interface.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Create implements store.NoteStore.Create
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	query := `
		INSERT INTO notes (id, owner_id, article_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		note.ID,
		note.OwnerID,
		note.ArticleID,
		note.Question,
		note.Answer,
		note.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return MapError(err)
	}

	return nil
}

// ListByArticle implements store.NoteStore.ListByArticle
func (s *PostgresNoteStore) ListByArticle(ctx context.Context, articleID string, ownerID uuid.UUID) ([]*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, article_id, question, answer, created_at
		FROM notes
		WHERE article_id = $1 AND owner_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, articleID, ownerID)
	if err != nil {
		log.Error("failed to query notes", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	notes := []*domain.Note{}
	for rows.Next() {
		var note domain.Note
		err := rows.Scan(
			&note.ID,
			&note.OwnerID,
			&note.ArticleID,
			&note.Question,
			&note.Answer,
			&note.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan note row", slog.String("error", err.Error()))
			return nil, err
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning note rows", slog.String("error", err.Error()))
		return nil, err
	}

	return notes, nil
}

// Delete implements store.NoteStore.Delete
// The owner filter makes deleting another user's note indistinguishable
// from deleting a note that never existed.
func (s *PostgresNoteStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		log.Error("failed to delete note",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrNoteNotFound)
}

// WithTx implements store.NoteStore.WithTx
func (s *PostgresNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &PostgresNoteStore{
		db:     tx,
		logger: s.logger,
	}
}
