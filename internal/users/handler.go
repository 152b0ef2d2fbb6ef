package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/shared/server/middleware"
	"docchat-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the users service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches routes that do not require a verified token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches routes behind the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/me", h.me)
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "email_taken", "Email already registered", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		return
	}

	token, user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		}
		return
	}

	respond.OK(c, gin.H{"token": token, "fullName": user.FullName})
}

func (h *Handler) logout(c *gin.Context) {
	token := middleware.RawTokenFromContext(c)
	if strings.TrimSpace(token) == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	h.Svc.Logout(token)
	respond.OK(c, gin.H{"msg": "Successfully logged out"})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Token is valid but the account row is gone; still return the claims.
			respond.OK(c, gin.H{"id": userID, "fullName": middleware.UserNameFromContext(c)})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load account", nil)
		return
	}
	respond.OK(c, gin.H{"id": user.ID, "email": user.Email, "fullName": user.FullName})
}
