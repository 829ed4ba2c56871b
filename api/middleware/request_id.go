package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Ani07-05/brickdash/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes the caller's request id or mints one, and attaches it
// to the log context so every line for the request carries it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
