package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/service"
)

// ArticleHandler handles article retrieval, editing, deletion, and
// article-grounded questions.
type ArticleHandler struct {
	articleService service.ArticleService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articleService service.ArticleService, logger *slog.Logger) *ArticleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleHandler{
		articleService: articleService,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "article_handler")),
	}
}

// articleView is an Article with content optionally rendered to HTML.
type articleView struct {
	*domain.Article
	HTML string `json:"html,omitempty"`
}

// GetArticle handles GET /api/article/{article_id}. With ?format=html
// the markdown content is additionally rendered to HTML.
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	articleID, err := getPathString(r, "article_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), userID, articleID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := generation.RenderHTML(article.Content)
		if err != nil {
			HandleAPIError(w, r, err, h.logger)
			return
		}
		shared.RespondWithJSON(w, http.StatusOK, articleView{Article: article, HTML: html})
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, article)
}

// GetPublicArticle handles GET /api/public/article/{article_id}.
// The route is unauthenticated so generated articles can be shared by
// link.
func (h *ArticleHandler) GetPublicArticle(w http.ResponseWriter, r *http.Request) {
	articleID, err := getPathString(r, "article_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	article, err := h.articleService.GetPublicArticle(r.Context(), articleID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, article)
}

// ListArticles handles GET /api/articles.
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	articles, err := h.articleService.ListArticles(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, articles)
}

// UpdateArticle handles PUT /api/article/{article_id}.
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	articleID, err := getPathString(r, "article_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	var req UpdateArticleRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.UpdateArticle(r.Context(), userID, articleID, req.Title, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, article)
}

// DeleteArticle handles DELETE /api/article/{article_id}.
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	articleID, err := getPathString(r, "article_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	if err := h.articleService.DeleteArticle(r.Context(), userID, articleID); err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusNoContent, nil)
}

// DeleteArticles handles POST /api/articles/delete.
func (h *ArticleHandler) DeleteArticles(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.articleService.DeleteArticles(r.Context(), userID, req.IDs)
	if err != nil {
		h.logger.WarnContext(r.Context(), "batch article delete stopped early",
			slog.Int("requested", len(req.IDs)),
			slog.Int("deleted", deleted),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, BatchDeleteResponse{Deleted: deleted})
}

// Ask handles POST /api/ask.
func (h *ArticleHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req AskRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	answer, err := h.articleService.Ask(r.Context(), userID, req.ArticleID, req.Question)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, AskResponse{Answer: answer})
}
