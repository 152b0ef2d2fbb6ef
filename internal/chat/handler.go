package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/documents"
	"docchat-backend/internal/extract"
	"docchat-backend/internal/llm"
	"docchat-backend/internal/shared/server/middleware"
	"docchat-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches summarize/ask/history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/summarize", h.summarize)
	rg.POST("/documents/:id/ask", h.ask)
	rg.GET("/documents/:id/history", h.history)
}

type summarizeRequest struct {
	Style  string `json:"style"`
	Length string `json:"length"`
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *Handler) summarize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	// Style and length are optional; an empty body means the generic summary.
	var req summarizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	summary, err := h.Svc.Summarize(c.Request.Context(), userID, documentID, req.Style, req.Length)
	if err != nil {
		writeChatError(c, err)
		return
	}

	c.Set("documentId", documentID)
	if summary.Bullets != nil {
		respond.OK(c, gin.H{"summary": summary.Bullets, "filename": summary.FileName})
		return
	}
	respond.OK(c, gin.H{"summary": summary.Text, "filename": summary.FileName})
}

func (h *Handler) ask(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "question is required", nil)
		return
	}

	result, err := h.Svc.Ask(c.Request.Context(), userID, documentID, req.Question)
	if err != nil {
		writeChatError(c, err)
		return
	}

	c.Set("documentId", documentID)
	respond.OK(c, gin.H{"answer": result.Answer, "persisted": result.Persisted})
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	turns, err := h.Svc.History(c.Request.Context(), userID, documentID)
	if err != nil {
		writeChatError(c, err)
		return
	}

	c.Set("documentId", documentID)
	respond.OK(c, gin.H{"chat_history": turns})
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound), errors.Is(err, extract.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, documents.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "document belongs to another user", nil)
	case errors.Is(err, documents.ErrInvalidInput), errors.Is(err, ErrEmptyQuestion):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "only .txt and .pdf documents are supported", nil)
	case errors.Is(err, extract.ErrCorrupt):
		respond.Error(c, http.StatusUnprocessableEntity, "corrupt_document", "document content could not be decoded", nil)
	case errors.Is(err, llm.ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "oracle_timeout", "assistant did not answer in time", nil)
	case errors.Is(err, llm.ErrUnavailable):
		respond.Error(c, http.StatusBadGateway, "oracle_unavailable", "assistant is unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "chat operation failed", nil)
	}
}
