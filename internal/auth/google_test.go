package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/amanghuman/Resume-Audit-Pro/internal/ledger"
	sharedauth "github.com/amanghuman/Resume-Audit-Pro/internal/shared/auth"
)

func TestAppendToken(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "http://localhost:5173/auth", want: "http://localhost:5173/auth?token=abc"},
		{name: "existing query", raw: "https://app.example.com/cb?next=%2Faudit", want: "https://app.example.com/cb?next=%2Faudit&token=abc"},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := appendToken(tt.raw, "abc")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateStoreConsumeOnceAndExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newStateStore(func() time.Time { return now })

	store.put("a", time.Minute)
	if !store.consume("a") {
		t.Fatal("expected fresh state to be accepted")
	}
	if store.consume("a") {
		t.Fatal("state must be single use")
	}

	store.put("b", time.Minute)
	now = now.Add(2 * time.Minute)
	if store.consume("b") {
		t.Fatal("expired state must be rejected")
	}

	store.put("c", time.Minute)
	now = now.Add(2 * time.Minute)
	store.put("d", time.Minute)
	if _, ok := store.items["c"]; ok {
		t.Fatal("expired states must be pruned on put")
	}
}

func TestStartRequiresConfiguration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGoogleService("", "", "", "", nil).RegisterRoutes(r.Group("/api/v1"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCallbackCreatesAccountAndIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at", "token_type": "Bearer", "expires_in": 3600})
		case "/userinfo":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "42", "email": "ada@example.com", "name": "Ada"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(provider.Close)

	oldURL := userInfoURL
	userInfoURL = provider.URL + "/userinfo"
	t.Cleanup(func() { userInfoURL = oldURL })

	ledgerSvc := ledger.NewService(ledger.NewMemoryStore(), 3)
	svc := NewGoogleService("id", "secret", "http://localhost/cb", "http://localhost:5173/auth", ledgerSvc)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{AuthURL: provider.URL + "/auth", TokenURL: provider.URL + "/token"}
	svc.stateStore.put("s1", time.Minute)

	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=s1&code=c1", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil || !strings.HasPrefix(loc.String(), "http://localhost:5173/auth") {
		t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
	}
	claims, err := sharedauth.VerifyJWT(loc.Query().Get("token"))
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != "google:42" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	acct, err := ledgerSvc.Get(t.Context(), "ada@example.com")
	if err != nil || acct.Credits != 3 {
		t.Fatalf("expected starter account, got %+v %v", acct, err)
	}
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGoogleService("id", "secret", "http://localhost/cb", "http://ui", nil).RegisterRoutes(r.Group("/api/v1"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=nope&code=c", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
