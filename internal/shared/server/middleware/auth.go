package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/auth"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server/respond"
)

const (
	callerKey = "caller"
	// userIDKey and isGuestKey are also read by respond when logging errors.
	userIDKey  = "userId"
	isGuestKey = "isGuest"

	guestHeader    = "X-Guest-Id"
	guestPrefix    = "guest:"
	maxGuestIDLen  = 128
	msgBadToken    = "missing or invalid token"
	msgNoIdentity  = "Missing identity"
	msgBadGuestID  = "invalid guest id"
	codeNoIdentity = "unauthorized"
)

// Caller identifies who is auditing. Key scopes the audit session and the
// rate limiter: "google:<sub>" for signed-in users, "guest:<id>" otherwise.
type Caller struct {
	Key     string
	Email   string
	Name    string
	Picture string
	Guest   bool
}

// Auth resolves the Caller from a bearer JWT or, failing that, the
// X-Guest-Id header. Paths under a public prefix skip identity entirely.
func Auth(public ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		for _, prefix := range public {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		caller, status, msg := resolveCaller(c)
		if status != 0 {
			respond.Error(c, status, codeNoIdentity, msg, nil)
			return
		}
		c.Set(callerKey, caller)
		c.Set(userIDKey, caller.Key)
		c.Set(isGuestKey, caller.Guest)
		c.Next()
	}
}

func resolveCaller(c *gin.Context) (Caller, int, string) {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			return Caller{}, http.StatusUnauthorized, msgBadToken
		}
		claims, err := auth.VerifyJWT(token)
		if err != nil || claims.Subject == "" {
			return Caller{}, http.StatusUnauthorized, msgBadToken
		}
		return Caller{
			Key:     claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Picture: claims.Picture,
		}, 0, ""
	}

	guestID := strings.TrimSpace(c.GetHeader(guestHeader))
	if guestID == "" {
		return Caller{}, http.StatusUnauthorized, msgNoIdentity
	}
	if !validGuestID(guestID) {
		return Caller{}, http.StatusBadRequest, msgBadGuestID
	}
	return Caller{Key: guestPrefix + guestID, Guest: true}, 0, ""
}

// validGuestID accepts the ids browsers mint (uuids and similar tokens).
func validGuestID(id string) bool {
	if len(id) > maxGuestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.' || ch == ':':
		default:
			return false
		}
	}
	return true
}

// CallerFromContext returns the Caller set by Auth. Routes outside Auth get
// an anonymous guest.
func CallerFromContext(c *gin.Context) Caller {
	if c == nil {
		return Caller{Guest: true}
	}
	if caller, ok := c.Get(callerKey); ok {
		if v, ok := caller.(Caller); ok {
			return v
		}
	}
	return Caller{Guest: true}
}

// UserIDFromContext returns the caller key.
func UserIDFromContext(c *gin.Context) string {
	return CallerFromContext(c).Key
}

// IsGuest reports whether the caller identified with X-Guest-Id only.
func IsGuest(c *gin.Context) bool {
	return CallerFromContext(c).Guest
}
