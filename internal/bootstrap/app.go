package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "docchat-backend/internal/auth"
	"docchat-backend/internal/chat"
	"docchat-backend/internal/documents"
	"docchat-backend/internal/extract"
	"docchat-backend/internal/llm"
	"docchat-backend/internal/llm/gemini"
	"docchat-backend/internal/llm/openai"
	sharedauth "docchat-backend/internal/shared/auth"
	"docchat-backend/internal/shared/config"
	"docchat-backend/internal/shared/server"
	"docchat-backend/internal/shared/storage/db"
	"docchat-backend/internal/shared/storage/object"
	localstore "docchat-backend/internal/shared/storage/object/local"
	s3store "docchat-backend/internal/shared/storage/object/s3"
	"docchat-backend/internal/shared/telemetry"
	"docchat-backend/internal/users"
)

const revocationPurgeInterval = 10 * time.Minute

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Revocation       *sharedauth.RevocationList
	Authority        *sharedauth.Authority
	Oracle           llm.Oracle
	UsersRepo        users.Repo
	DocumentsRepo    documents.Repo
	TranscriptsRepo  chat.Repo
	UsersService     *users.Service
	DocumentsService *documents.Service
	ChatService      *chat.Service
	UsersHandler     *users.Handler
	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
	GoogleAuth       *googleauth.GoogleService

	stopPurge chan struct{}
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	oracle, err := buildOracle(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Oracle:    oracle,
		stopPurge: make(chan struct{}),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Authority:       app.Authority,
		UserHandler:     app.UsersHandler,
		DocumentHandler: app.DocumentsHandler,
		ChatHandler:     app.ChatHandler,
		GoogleAuth:      app.GoogleAuth,
	})

	go app.purgeRevokedLoop()

	return app, nil
}

// Close stops background work and releases held resources.
func (a *App) Close() error {
	close(a.stopPurge)
	if closer, ok := a.Oracle.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildOracle(ctx context.Context, cfg config.Config) (llm.Oracle, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel, cfg.LLMTimeout)
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if strings.TrimSpace(apiKey) == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: GEMINI_API_KEY empty; oracle disabled")
				return llm.Placeholder{}, nil
			}
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return gemini.NewClient(ctx, apiKey, cfg.LLMModel)
	default:
		return llm.Placeholder{}, nil
	}
}

func buildServices(app *App) {
	var userRepo users.Repo
	var docRepo documents.Repo
	var chatRepo chat.Repo

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		chatRepo = &chat.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		chatRepo = chat.NewMemoryRepo()
	}

	revocation := sharedauth.NewRevocationList()
	authority := sharedauth.NewAuthority(app.Config.JWTSecret, app.Config.TokenTTL, revocation)

	docSvc := &documents.Service{
		Store:       app.Store,
		Repo:        docRepo,
		Transcripts: chatRepo,
	}
	chatSvc := &chat.Service{
		Docs:          docSvc,
		Store:         app.Store,
		Repo:          chatRepo,
		Oracle:        app.Oracle,
		Extract:       extract.FromStore,
		OracleTimeout: app.Config.LLMTimeout,
	}
	userSvc := users.NewService(userRepo, authority)

	app.Revocation = revocation
	app.Authority = authority
	app.UsersRepo = userRepo
	app.DocumentsRepo = docRepo
	app.TranscriptsRepo = chatRepo
	app.UsersService = userSvc
	app.DocumentsService = docSvc
	app.ChatService = chatSvc
	app.UsersHandler = users.NewHandler(userSvc)
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ChatHandler = chat.NewHandler(chatSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
		authority,
	)
}

func (a *App) purgeRevokedLoop() {
	ticker := time.NewTicker(revocationPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopPurge:
			return
		case <-ticker.C:
			if removed := a.Authority.PurgeExpired(); removed > 0 {
				telemetry.Info("auth.revocation.purged", map[string]any{
					"removed": removed,
				})
			}
		}
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
