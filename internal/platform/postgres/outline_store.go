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

// PostgresOutlineStore implements the store.OutlineStore interface.
// Chapter lists are stored as JSONB; outlines are read whole or not at
// all, so there is nothing to gain from a chapters table.
type PostgresOutlineStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOutlineStore creates a new PostgreSQL implementation of
// the OutlineStore interface.
func NewPostgresOutlineStore(db store.DBTX, logger *slog.Logger) *PostgresOutlineStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOutlineStore{
		db:     db,
		logger: logger.With(slog.String("component", "outline_store")),
	}
}

// Ensure PostgresOutlineStore implements store.OutlineStore interface
var _ store.OutlineStore = (*PostgresOutlineStore)(nil)

const outlineColumns = `id, owner_id, title, description, topic, chapters, links, enable_search, created_at`

// Create implements store.OutlineStore.Create
func (s *PostgresOutlineStore) Create(ctx context.Context, outline *domain.Outline) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := outline.Validate(); err != nil {
		log.Warn("outline validation failed during create",
			slog.String("error", err.Error()),
			slog.String("outline_id", outline.ID.String()))
		return err
	}

	chapters, links, err := marshalOutlineFields(outline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO outlines (` + outlineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		outline.ID,
		outline.OwnerID,
		outline.Title,
		outline.Description,
		outline.Topic,
		chapters,
		links,
		outline.EnableSearch,
		outline.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create outline",
			slog.String("error", err.Error()),
			slog.String("outline_id", outline.ID.String()))
		return MapError(err)
	}

	log.Debug("outline created", slog.String("outline_id", outline.ID.String()))
	return nil
}

// GetByID implements store.OutlineStore.GetByID
// Returns store.ErrOutlineNotFound if the outline does not exist.
func (s *PostgresOutlineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Outline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + outlineColumns + ` FROM outlines WHERE id = $1`

	outline, err := scanOutline(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("outline not found", slog.String("outline_id", id.String()))
			return nil, store.ErrOutlineNotFound
		}
		log.Error("failed to get outline by ID",
			slog.String("error", err.Error()),
			slog.String("outline_id", id.String()))
		return nil, MapError(err)
	}

	return outline, nil
}

// Update implements store.OutlineStore.Update
// Returns store.ErrOutlineNotFound if the outline does not exist.
func (s *PostgresOutlineStore) Update(ctx context.Context, outline *domain.Outline) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := outline.Validate(); err != nil {
		log.Warn("outline validation failed during update",
			slog.String("error", err.Error()),
			slog.String("outline_id", outline.ID.String()))
		return err
	}

	chapters, links, err := marshalOutlineFields(outline)
	if err != nil {
		return err
	}

	query := `
		UPDATE outlines
		SET title = $1, description = $2, chapters = $3, links = $4, enable_search = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		outline.Title,
		outline.Description,
		chapters,
		links,
		outline.EnableSearch,
		outline.ID,
	)

	if err != nil {
		log.Error("failed to update outline",
			slog.String("error", err.Error()),
			slog.String("outline_id", outline.ID.String()))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrOutlineNotFound)
}

// ListByOwner implements store.OutlineStore.ListByOwner
func (s *PostgresOutlineStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Outline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + outlineColumns + ` FROM outlines WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query outlines", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	outlines := []*domain.Outline{}
	for rows.Next() {
		outline, err := scanOutline(rows)
		if err != nil {
			log.Error("failed to scan outline row", slog.String("error", err.Error()))
			return nil, err
		}
		outlines = append(outlines, outline)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning outline rows", slog.String("error", err.Error()))
		return nil, err
	}

	return outlines, nil
}

// WithTx implements store.OutlineStore.WithTx
func (s *PostgresOutlineStore) WithTx(tx *sql.Tx) store.OutlineStore {
	return &PostgresOutlineStore{
		db:     tx,
		logger: s.logger,
	}
}

func marshalOutlineFields(outline *domain.Outline) (chapters, links []byte, err error) {
	chapters, err = json.Marshal(outline.Chapters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal outline chapters: %w", err)
	}
	links, err = json.Marshal(outline.Links)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal outline links: %w", err)
	}
	return chapters, links, nil
}

func scanOutline(row rowScanner) (*domain.Outline, error) {
	var outline domain.Outline
	var chapters, links []byte

	err := row.Scan(
		&outline.ID,
		&outline.OwnerID,
		&outline.Title,
		&outline.Description,
		&outline.Topic,
		&chapters,
		&links,
		&outline.EnableSearch,
		&outline.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(chapters) > 0 {
		if err := json.Unmarshal(chapters, &outline.Chapters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outline chapters: %w", err)
		}
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &outline.Links); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outline links: %w", err)
		}
	}

	return &outline, nil
}
