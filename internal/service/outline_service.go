package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

// OutlineService provides outline-related operations. Outline generation
// runs synchronously: a single model call is fast enough to answer
// within the request.
type OutlineService interface {
	// GenerateOutline generates and saves a new outline for the topic.
	// Links and enableSearch are carried on the outline for the later
	// document generation run.
	GenerateOutline(
		ctx context.Context,
		ownerID uuid.UUID,
		topic, description string,
		links []string,
		enableSearch bool,
	) (*domain.Outline, error)

	// RegenerateOutline replaces an outline's content with a fresh
	// generation steered by the user's feedback on the previous attempt.
	RegenerateOutline(ctx context.Context, ownerID, outlineID uuid.UUID, feedback string) (*domain.Outline, error)

	// UpdateOutline swaps in a user-edited chapter list.
	UpdateOutline(ctx context.Context, ownerID, outlineID uuid.UUID, chapters []domain.ChapterSpec) (*domain.Outline, error)

	// GetOutline retrieves one of the owner's outlines.
	GetOutline(ctx context.Context, ownerID, outlineID uuid.UUID) (*domain.Outline, error)

	// ListOutlines retrieves the owner's outlines, newest first.
	ListOutlines(ctx context.Context, ownerID uuid.UUID) ([]*domain.Outline, error)
}

type outlineServiceImpl struct {
	outlines store.OutlineStore
	writer   generation.OutlineWriter
	logger   *slog.Logger
}

// NewOutlineService creates a new OutlineService.
func NewOutlineService(
	outlines store.OutlineStore,
	writer generation.OutlineWriter,
	logger *slog.Logger,
) (OutlineService, error) {
	if outlines == nil {
		return nil, fmt.Errorf("outline store cannot be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("outline writer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &outlineServiceImpl{
		outlines: outlines,
		writer:   writer,
		logger:   logger.With("component", "outline_service"),
	}, nil
}

func (s *outlineServiceImpl) GenerateOutline(
	ctx context.Context,
	ownerID uuid.UUID,
	topic, description string,
	links []string,
	enableSearch bool,
) (*domain.Outline, error) {
	draft, err := s.writer.WriteOutline(ctx, topic, description)
	if err != nil {
		s.logger.Error("failed to generate outline",
			"error", err,
			"topic", topic,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to generate outline: %w", err)
	}

	outline, err := domain.NewOutline(ownerID, topic, draft.Title, draft.Description, draft.Chapters)
	if err != nil {
		return nil, fmt.Errorf("failed to create outline: %w", err)
	}
	outline.Links = links
	outline.EnableSearch = enableSearch

	if err := s.outlines.Create(ctx, outline); err != nil {
		s.logger.Error("failed to save outline",
			"error", err,
			"outline_id", outline.ID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to save outline: %w", err)
	}

	s.logger.Info("outline generated",
		"outline_id", outline.ID,
		"user_id", ownerID,
		"chapters", len(outline.Chapters))

	return outline, nil
}

func (s *outlineServiceImpl) RegenerateOutline(
	ctx context.Context,
	ownerID, outlineID uuid.UUID,
	feedback string,
) (*domain.Outline, error) {
	outline, err := s.ownedOutline(ctx, ownerID, outlineID)
	if err != nil {
		return nil, err
	}

	draft, err := s.writer.WriteOutline(ctx, outline.Topic, feedback)
	if err != nil {
		s.logger.Error("failed to regenerate outline",
			"error", err,
			"outline_id", outlineID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to regenerate outline: %w", err)
	}

	if err := outline.ReplaceChapters(draft.Chapters); err != nil {
		return nil, fmt.Errorf("regenerated outline is invalid: %w", err)
	}
	outline.Title = draft.Title
	outline.Description = draft.Description

	if err := s.outlines.Update(ctx, outline); err != nil {
		s.logger.Error("failed to save regenerated outline",
			"error", err,
			"outline_id", outlineID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to save regenerated outline: %w", err)
	}

	s.logger.Info("outline regenerated",
		"outline_id", outlineID,
		"user_id", ownerID,
		"chapters", len(outline.Chapters))

	return outline, nil
}

func (s *outlineServiceImpl) UpdateOutline(
	ctx context.Context,
	ownerID, outlineID uuid.UUID,
	chapters []domain.ChapterSpec,
) (*domain.Outline, error) {
	outline, err := s.ownedOutline(ctx, ownerID, outlineID)
	if err != nil {
		return nil, err
	}

	if err := outline.ReplaceChapters(chapters); err != nil {
		return nil, err
	}

	if err := s.outlines.Update(ctx, outline); err != nil {
		s.logger.Error("failed to save edited outline",
			"error", err,
			"outline_id", outlineID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to save edited outline: %w", err)
	}

	return outline, nil
}

func (s *outlineServiceImpl) GetOutline(ctx context.Context, ownerID, outlineID uuid.UUID) (*domain.Outline, error) {
	return s.ownedOutline(ctx, ownerID, outlineID)
}

func (s *outlineServiceImpl) ListOutlines(ctx context.Context, ownerID uuid.UUID) ([]*domain.Outline, error) {
	outlines, err := s.outlines.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list outlines",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list outlines: %w", err)
	}
	return outlines, nil
}

func (s *outlineServiceImpl) ownedOutline(ctx context.Context, ownerID, outlineID uuid.UUID) (*domain.Outline, error) {
	outline, err := s.outlines.GetByID(ctx, outlineID)
	if err != nil {
		return nil, err
	}
	if outline.OwnerID != ownerID {
		return nil, ErrNotOwned
	}
	return outline, nil
}
