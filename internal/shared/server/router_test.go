package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/config"
)

type stubAudits struct{}

func (stubAudits) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/audits", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"state": "generated"}) })
	rg.GET("/audits/current", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Config: config.Config{
			CORSAllowOrigin: []string{"http://localhost:5173"},
			RateLimitRPS:    1,
			RateLimitBurst:  2,
		},
		AuditHandler: stubAudits{},
	})
}

func TestPublicRoutesSkipIdentity(t *testing.T) {
	r := newTestRouter()
	for _, path := range []string{"/api/v1/health", "/api/v1/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: expected request id header", path)
		}
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
	if !strings.Contains(rec.Body.String(), "audit_started_total") {
		t.Fatalf("unexpected metrics body %q", rec.Body.String())
	}
}

func TestAuditRoutesRequireIdentity(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/audits", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuditSubmissionsAreRateLimited(t *testing.T) {
	r := newTestRouter()
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/audits", nil)
		req.Header.Set("X-Guest-Id", "g1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/current", nil)
	req.Header.Set("X-Guest-Id", "g1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("reads use their own bucket, got %d", rec.Code)
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
