package respond

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/telemetry"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/util"
)

// Context keys written by the middleware chain. Duplicated here to avoid an
// import cycle with middleware.
const (
	ctxRequestID = "requestId"
	ctxUserID    = "userId"
	ctxIsGuest   = "isGuest"
)

// Problem is the error object every failing endpoint returns.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Error Problem `json:"error"`
}

// Error logs the failure and aborts with {"error": {...}}.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString(ctxRequestID),
	}
	if userID := c.GetString(ctxUserID); userID != "" {
		fields["user_key"] = util.Fingerprint(userID)
	}
	if isGuest, ok := c.Get(ctxIsGuest); ok {
		fields["is_guest"] = isGuest
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.rejected", fields)
	}

	c.AbortWithStatusJSON(status, envelope{Error: Problem{Code: code, Message: message, Details: details}})
}

// Throttled aborts with 429, a Retry-After header in whole seconds and
// retryAfterMs in the details. Waits under one second round up to 1.
func Throttled(c *gin.Context, status int, code, message string, wait time.Duration, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	ms := wait.Milliseconds()
	if ms <= 0 {
		ms = 1000
	}
	details["retryAfterMs"] = ms
	c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds(wait)))
	Error(c, status, code, message, details)
}

// RetryAfterSeconds rounds wait up to whole seconds, never below 1.
func RetryAfterSeconds(wait time.Duration) int {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
