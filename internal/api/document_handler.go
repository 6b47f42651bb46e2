package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/service"
)

// DocumentHandler handles assembled document retrieval and deletion.
type DocumentHandler struct {
	documentService service.DocumentService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentHandler{
		documentService: documentService,
		validator:       validator.New(),
		logger:          logger.With(slog.String("component", "document_handler")),
	}
}

// GetDocument handles GET /api/document/{document_id}.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	documentID, err := getPathString(r, "document_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	document, err := h.documentService.GetDocument(r.Context(), userID, documentID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, document)
}

// ListDocuments handles GET /api/documents.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	documents, err := h.documentService.ListDocuments(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, documents)
}

// DeleteDocument handles DELETE /api/document/{document_id}.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	documentID, err := getPathString(r, "document_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	if err := h.documentService.DeleteDocument(r.Context(), userID, documentID); err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusNoContent, nil)
}

// DeleteDocuments handles POST /api/documents/delete.
func (h *DocumentHandler) DeleteDocuments(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req BatchDeleteRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.documentService.DeleteDocuments(r.Context(), userID, req.IDs)
	if err != nil {
		h.logger.WarnContext(r.Context(), "batch document delete stopped early",
			slog.Int("requested", len(req.IDs)),
			slog.Int("deleted", deleted),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, BatchDeleteResponse{Deleted: deleted})
}
