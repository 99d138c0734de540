package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	Env                string
	LLMProvider        string
	LLMModel           string
	GeminiAPIKey       string
	OpenAIAPIKey       string
	UseVertexAI        bool
	GCPProject         string
	GCPLocation        string
	ExtractorBackend   string
	Audit              AuditConfig
	LedgerStore        string
	LedgerFile         string
	LedgerS3Bucket     string
	LedgerS3Key        string
	AWSRegion          string
	StarterCredits     int
	DatabaseURL        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// AuditConfig carries the per-deployment knobs of the audit pipeline.
type AuditConfig struct {
	Tone                  string
	Sections              string
	Strictness            string
	MaxTextLength         int
	Cooldown              time.Duration
	FailurePolicy         string
	RequireRole           bool
	RequireJobDescription bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	ledgerStore := normalizeLedgerStore(getEnv("LEDGER_STORE", "file"))

	if ledgerStore == "postgres" && dbURL == "" {
		log.Printf("DATABASE_URL is required for LEDGER_STORE=postgres")
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:              env,
		LLMProvider:      normalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:         getEnv("LLM_MODEL", ""),
		GeminiAPIKey:     firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		UseVertexAI:      getEnvBool("GOOGLE_GENAI_USE_VERTEXAI", false),
		GCPProject:       getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GCPLocation:      getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		ExtractorBackend: strings.ToLower(getEnv("EXTRACTOR_BACKEND", "auto")),
		Audit: AuditConfig{
			Tone:                  getEnv("PROMPT_TONE", "executive"),
			Sections:              getEnv("PROMPT_SECTIONS", "audit"),
			Strictness:            getEnv("PROMPT_STRICTNESS", "standard"),
			MaxTextLength:         getEnvInt("MAX_TEXT_LENGTH", 100_000),
			Cooldown:              getEnvDuration("AUDIT_COOLDOWN", 2*time.Second),
			FailurePolicy:         getEnv("AUDIT_FAILURE_POLICY", "keep"),
			RequireRole:           getEnvBool("AUDIT_REQUIRE_ROLE", false),
			RequireJobDescription: getEnvBool("AUDIT_REQUIRE_JOB_DESCRIPTION", false),
		},
		LedgerStore:        ledgerStore,
		LedgerFile:         getEnv("LEDGER_FILE", "users.json"),
		LedgerS3Bucket:     getEnv("LEDGER_S3_BUCKET", ""),
		LedgerS3Key:        getEnv("LEDGER_S3_KEY", "ledger/users.json"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		StarterCredits:     getEnvInt("STARTER_CREDITS", 3),
		DatabaseURL:        dbURL,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 5),
	}

	if path := strings.TrimSpace(os.Getenv("AUDIT_VARIANT_FILE")); path != "" {
		variant, err := LoadVariant(path)
		if err != nil {
			log.Printf("audit variant %s ignored: %v", path, err)
		} else {
			variant.Apply(&cfg.Audit)
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(strings.ReplaceAll(raw, "_", ""))
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config env %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config env %s invalid bool: %v", key, err)
		return def
	}
	return val
}

// getEnvDuration accepts Go durations ("1500ms") or bare seconds ("2").
func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config env %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeLedgerStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "s3":
		return "s3"
	default:
		return "file"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "placeholder":
		return "placeholder"
	default:
		return "gemini"
	}
}
