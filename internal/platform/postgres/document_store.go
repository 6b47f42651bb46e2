package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/platform/logger"
	"github.com/learnflow/learnflow-api/internal/store"
)

// PostgresDocumentStore implements the store.DocumentStore interface.
// Chapter results are persisted as a JSONB column since they are only
// ever read back as a whole document.
type PostgresDocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDocumentStore creates a new PostgreSQL implementation of
// the DocumentStore interface.
func NewPostgresDocumentStore(db store.DBTX, logger *slog.Logger) *PostgresDocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure PostgresDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*PostgresDocumentStore)(nil)

const documentColumns = `id, owner_id, title, description, topic, chapters, created_at`

// Create implements store.DocumentStore.Create
func (s *PostgresDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID))
		return err
	}

	chaptersJSON, err := json.Marshal(doc.Chapters)
	if err != nil {
		return fmt.Errorf("failed to marshal chapters: %w", err)
	}

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.Description,
		doc.Topic,
		chaptersJSON,
		doc.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID))
		return MapError(err)
	}

	log.Debug("document created",
		slog.String("document_id", doc.ID),
		slog.Int("chapters", len(doc.Chapters)))
	return nil
}

// GetByID implements store.DocumentStore.GetByID
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.String("document_id", id))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document by ID",
			slog.String("error", err.Error()),
			slog.String("document_id", id))
		return nil, MapError(err)
	}

	return doc, nil
}

// Delete implements store.DocumentStore.Delete
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete document",
			slog.String("error", err.Error()),
			slog.String("document_id", id))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrDocumentNotFound)
}

// ListByOwner implements store.DocumentStore.ListByOwner
func (s *PostgresDocumentStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query documents", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	documents := []*domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			log.Error("failed to scan document row", slog.String("error", err.Error()))
			return nil, err
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning document rows", slog.String("error", err.Error()))
		return nil, err
	}

	return documents, nil
}

// WithTx implements store.DocumentStore.WithTx
func (s *PostgresDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &PostgresDocumentStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var chaptersJSON []byte

	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.Description,
		&doc.Topic,
		&chaptersJSON,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(chaptersJSON, &doc.Chapters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapters: %w", err)
	}

	return &doc, nil
}
