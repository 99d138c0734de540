package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/ledger"
	"github.com/amanghuman/Resume-Audit-Pro/internal/llm"
	"github.com/amanghuman/Resume-Audit-Pro/internal/prompt"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:              "dev",
		CORSAllowOrigin:  []string{"http://localhost:5173"},
		LLMProvider:      "placeholder",
		ExtractorBackend: "auto",
		LedgerStore:      "file",
		LedgerFile:       filepath.Join(t.TempDir(), "users.json"),
		StarterCredits:   3,
		Audit: config.AuditConfig{
			Tone:          "executive",
			Sections:      "review",
			Strictness:    "strict",
			MaxTextLength: 100_000,
			Cooldown:      2 * time.Second,
			FailurePolicy: "clear",
		},
	}
}

func TestBuildWiresRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(testConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.Router == nil || app.Pipeline == nil || app.Ledger == nil {
		t.Fatalf("expected wired app, got %+v", app)
	}
	if _, ok := app.LedgerStore.(*ledger.DocumentStore); !ok {
		t.Fatalf("expected document ledger, got %T", app.LedgerStore)
	}

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNewPipelineAppliesAuditConfig(t *testing.T) {
	p, err := NewPipeline(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	builder, ok := p.Prompts.(prompt.Builder)
	if !ok {
		t.Fatalf("unexpected builder %T", p.Prompts)
	}
	if builder.Policy.Sections != prompt.SectionsReview || builder.Policy.Strictness != prompt.StrictnessStrict {
		t.Fatalf("unexpected policy %+v", builder.Policy)
	}
	if p.Cooldown != 2*time.Second || p.OnFailure != "clear" {
		t.Fatalf("unexpected pipeline %+v", p)
	}
	if _, ok := p.LLM.(llm.PlaceholderClient); !ok {
		t.Fatalf("expected placeholder client, got %T", p.LLM)
	}
}

func TestNewPipelineRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "extractor", mutate: func(c *config.Config) { c.ExtractorBackend = "ocr" }},
		{name: "tone", mutate: func(c *config.Config) { c.Audit.Tone = "sarcastic" }},
		{name: "failure policy", mutate: func(c *config.Config) { c.Audit.FailurePolicy = "retry" }},
		{name: "openai without key", mutate: func(c *config.Config) { c.LLMProvider = "openai"; c.LLMModel = "gpt-4o" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			if _, err := NewPipeline(context.Background(), cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewLLMClientGeminiWithoutKeyIsPlaceholder(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = "gemini"
	client, err := NewLLMClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewLLMClient: %v", err)
	}
	if _, ok := client.(llm.PlaceholderClient); !ok {
		t.Fatalf("expected placeholder, got %T", client)
	}
}

func TestBuildPostgresLedgerFallsBackInDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.LedgerStore = "postgres"
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.DB != nil {
		t.Fatal("expected no database without DATABASE_URL")
	}
	if _, ok := app.LedgerStore.(*ledger.DocumentStore); !ok {
		t.Fatalf("expected file ledger fallback, got %T", app.LedgerStore)
	}
}

func TestBuildS3LedgerRequiresBucket(t *testing.T) {
	cfg := testConfig(t)
	cfg.LedgerStore = "s3"
	if _, err := Build(cfg); err == nil {
		t.Fatal("expected missing bucket error")
	}
}
