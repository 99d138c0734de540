package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/telemetry"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/util"
)

// Context keys handlers may set to enrich the request log line.
const (
	AuditStateKey  = "auditState"
	FailureKindKey = "failureKind"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userKey := ""
		if userID := UserIDFromContext(c); userID != "" {
			userKey = util.Fingerprint(userID)
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":   RequestIDFromContext(c),
			"method":       c.Request.Method,
			"path":         c.Request.URL.Path,
			"status":       c.Writer.Status(),
			"duration_ms":  float64(latency.Microseconds()) / 1000.0,
			"user_key":     userKey,
			"is_guest":     IsGuest(c),
			"audit_state":  c.GetString(AuditStateKey),
			"failure_kind": c.GetString(FailureKindKey),
			"client_ip":    c.ClientIP(),
			"user_agent":   c.Request.UserAgent(),
		})
	}
}
