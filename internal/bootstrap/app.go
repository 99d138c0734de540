package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/audit"
	googleauth "github.com/amanghuman/Resume-Audit-Pro/internal/auth"
	"github.com/amanghuman/Resume-Audit-Pro/internal/extract"
	"github.com/amanghuman/Resume-Audit-Pro/internal/ledger"
	"github.com/amanghuman/Resume-Audit-Pro/internal/llm"
	"github.com/amanghuman/Resume-Audit-Pro/internal/llm/gemini"
	"github.com/amanghuman/Resume-Audit-Pro/internal/llm/openai"
	"github.com/amanghuman/Resume-Audit-Pro/internal/prompt"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/config"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/storage/db"
	localstore "github.com/amanghuman/Resume-Audit-Pro/internal/shared/storage/object/local"
	s3store "github.com/amanghuman/Resume-Audit-Pro/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	LedgerStore   ledger.Store
	Ledger        *ledger.Service
	Pipeline      *audit.Pipeline
	Sessions      audit.SessionStore
	AuditHandler  *audit.Handler
	LedgerHandler *ledger.Handler
	GoogleAuth    *googleauth.GoogleService
}

// Build wires every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	pipeline, err := NewPipeline(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Pipeline: pipeline, Sessions: audit.NewMemorySessions()}

	store, err := buildLedgerStore(ctx, app)
	if err != nil {
		return nil, err
	}
	app.LedgerStore = store
	app.Ledger = ledger.NewService(store, cfg.StarterCredits)
	app.LedgerHandler = ledger.NewHandler(app.Ledger)
	app.AuditHandler = audit.NewHandler(pipeline, app.Sessions)
	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.Ledger,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		AuditHandler:  app.AuditHandler,
		LedgerHandler: app.LedgerHandler,
		GoogleAuth:    app.GoogleAuth,
	})
	return app, nil
}

// NewPipeline builds the extraction and generation pipeline from cfg.
func NewPipeline(ctx context.Context, cfg config.Config) (*audit.Pipeline, error) {
	extractor, err := extract.New(cfg.ExtractorBackend)
	if err != nil {
		return nil, err
	}
	builder, err := NewPromptBuilder(cfg)
	if err != nil {
		return nil, err
	}
	client, err := NewLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	onFailure, err := audit.ParseFailurePolicy(cfg.Audit.FailurePolicy)
	if err != nil {
		return nil, err
	}
	return &audit.Pipeline{
		Extractor: extractor,
		Prompts:   builder,
		LLM:       client,
		Cooldown:  cfg.Audit.Cooldown,
		Fields: audit.FieldPolicy{
			RequireRole:           cfg.Audit.RequireRole,
			RequireJobDescription: cfg.Audit.RequireJobDescription,
		},
		OnFailure: onFailure,
	}, nil
}

// NewPromptBuilder builds the prompt builder configured by cfg.Audit.
func NewPromptBuilder(cfg config.Config) (prompt.Builder, error) {
	policy, err := prompt.ParsePolicy(cfg.Audit.Tone, cfg.Audit.Sections, cfg.Audit.Strictness)
	if err != nil {
		return prompt.Builder{}, err
	}
	return prompt.Builder{Policy: policy, MaxChars: cfg.Audit.MaxTextLength}, nil
}

// NewLLMClient returns the configured provider. Gemini without credentials
// degrades to the placeholder client.
func NewLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	case "placeholder":
		return llm.PlaceholderClient{}, nil
	default:
		if !cfg.UseVertexAI && strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			log.Printf("bootstrap: GEMINI_API_KEY empty; audits will fail until a provider is configured")
			return llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.LLMModel,
			Vertex:   cfg.UseVertexAI,
			Project:  cfg.GCPProject,
			Location: cfg.GCPLocation,
		})
	}
}

func buildLedgerStore(ctx context.Context, app *App) (ledger.Store, error) {
	cfg := app.Config
	switch cfg.LedgerStore {
	case "postgres":
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if sqlDB != nil {
			app.DB = sqlDB
			return &ledger.PGStore{DB: sqlDB}, nil
		}
	case "s3":
		if strings.TrimSpace(cfg.LedgerS3Bucket) == "" {
			return nil, fmt.Errorf("LEDGER_STORE=s3 requires LEDGER_S3_BUCKET")
		}
		objects, err := s3store.New(ctx, cfg.AWSRegion, cfg.LedgerS3Bucket, "")
		if err != nil {
			return nil, err
		}
		return ledger.NewDocumentStore(objects, cfg.LedgerS3Key), nil
	}

	path := cfg.LedgerFile
	if strings.TrimSpace(path) == "" {
		path = "users.json"
	}
	return ledger.NewDocumentStore(localstore.New(filepath.Dir(path)), filepath.Base(path)), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using file ledger")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.Options{Purpose: db.ForServer, Migrate: true, CheckLedger: true})
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using file ledger: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
