package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/service"
)

// GenerateHandler handles generation submissions, outline management,
// and task status queries.
type GenerateHandler struct {
	outlineService    service.OutlineService
	generationService service.GenerationService
	validator         *validator.Validate
	logger            *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(
	outlineService service.OutlineService,
	generationService service.GenerationService,
	logger *slog.Logger,
) *GenerateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateHandler{
		outlineService:    outlineService,
		generationService: generationService,
		validator:         validator.New(),
		logger:            logger.With(slog.String("component", "generate_handler")),
	}
}

// GenerateOutline handles POST /api/generate/outline. Outline generation
// is synchronous; the full outline comes back in the response.
func (h *GenerateHandler) GenerateOutline(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req GenerateRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	outline, err := h.outlineService.GenerateOutline(
		r.Context(), userID, req.Topic, req.Description, req.Links, req.EnableSearch)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, outline)
}

// RegenerateOutline handles POST /api/regenerate/outline.
func (h *GenerateHandler) RegenerateOutline(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req RegenerateOutlineRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	outlineID, err := uuid.Parse(req.OutlineID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "outline_id is not a valid UUID")
		return
	}

	outline, err := h.outlineService.RegenerateOutline(r.Context(), userID, outlineID, req.Feedback)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, outline)
}

// UpdateOutline handles POST /api/update/outline.
func (h *GenerateHandler) UpdateOutline(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req UpdateOutlineRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	outlineID, err := uuid.Parse(req.OutlineID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "outline_id is not a valid UUID")
		return
	}

	outline, err := h.outlineService.UpdateOutline(r.Context(), userID, outlineID, req.Chapters)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, outline)
}

// GetOutline handles GET /api/outline/{outline_id}.
func (h *GenerateHandler) GetOutline(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	outlineID, err := getPathUUID(r, "outline_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	outline, err := h.outlineService.GetOutline(r.Context(), userID, outlineID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, outline)
}

// ListOutlines handles GET /api/outlines.
func (h *GenerateHandler) ListOutlines(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	outlines, err := h.outlineService.ListOutlines(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, outlines)
}

// GenerateArticle handles POST /api/generate/article. Article generation
// is asynchronous; the response carries a task ID to poll.
func (h *GenerateHandler) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req GenerateRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.generationService.GenerateArticle(
		r.Context(), userID, req.Topic, req.Description, req.Links, req.EnableSearch)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusAccepted, TaskResponse{
		TaskID: task.ID,
		Status: task.Status,
	})
}

// GenerateDocument handles POST /api/generate/document.
func (h *GenerateHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req GenerateDocumentRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	outlineID, err := uuid.Parse(req.OutlineID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "outline_id is not a valid UUID")
		return
	}

	task, err := h.generationService.GenerateDocument(r.Context(), userID, outlineID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusAccepted, TaskResponse{
		TaskID: task.ID,
		Status: task.Status,
	})
}

// GetTask handles GET /api/task/{task_id}.
func (h *GenerateHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	taskID, err := getPathUUID(r, "task_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	task, err := h.generationService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, task)
}

// ListTasks handles GET /api/tasks.
func (h *GenerateHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	tasks, err := h.generationService.ListTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, tasks)
}
