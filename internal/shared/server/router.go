package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "docchat-backend/internal/auth"
	"docchat-backend/internal/chat"
	"docchat-backend/internal/documents"
	sharedauth "docchat-backend/internal/shared/auth"
	"docchat-backend/internal/shared/config"
	"docchat-backend/internal/shared/metrics"
	"docchat-backend/internal/shared/server/middleware"
	"docchat-backend/internal/shared/server/respond"
	"docchat-backend/internal/users"
)

// RouterDeps carries the wired handlers the router needs.
type RouterDeps struct {
	Config          config.Config
	Authority       *sharedauth.Authority
	UserHandler     *users.Handler
	DocumentHandler *documents.Handler
	ChatHandler     *chat.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	deps.UserHandler.RegisterPublicRoutes(api)
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Authority))
	deps.UserHandler.RegisterRoutes(protected)
	deps.DocumentHandler.RegisterRoutes(protected)
	deps.ChatHandler.RegisterRoutes(protected)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
