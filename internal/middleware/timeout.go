package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds the whole request, store calls included, since handlers pass
// the request context down.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message := `{"error":true,"message":"request timed out"}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
