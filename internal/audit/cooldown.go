package audit

import "time"

// DefaultCooldown is the minimum gap between remote calls for one session.
const DefaultCooldown = 2 * time.Second

// cooldownRemaining returns how long the caller still has to wait before a new
// remote call may be issued. Zero means the call is allowed.
func cooldownRemaining(window time.Duration, last, now time.Time) time.Duration {
	if window <= 0 || last.IsZero() {
		return 0
	}
	elapsed := now.Sub(last)
	if elapsed < 0 {
		return window
	}
	if elapsed >= window {
		return 0
	}
	return window - elapsed
}
