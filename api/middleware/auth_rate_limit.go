package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/pkg/config"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimit throttles login-style endpoints per client IP and per
// submitted username. Both counters share the configured limit and window.
func AuthRateLimit(name string, cfg config.AuthConfig, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	scope := strings.ToLower(strings.TrimSpace(name))
	if scope == "" {
		scope = "auth"
	}

	return func(next http.Handler) http.Handler {
		if cfg.LoginRateLimit <= 0 || cfg.LoginRateWindow <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if ip != "" {
				key := fmt.Sprintf("%s:ip:%s", scope, ip)
				allowed, count, err := store.FixedWindowAllow(ctx, key, int64(cfg.LoginRateLimit), cfg.LoginRateWindow)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					respondRateLimited(ctx, logg, w, scope, "ip", count, cfg)
					return
				}
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if username := normalizeUsername(extractUsername(body)); username != "" {
				key := fmt.Sprintf("%s:user:%s", scope, hashValue(username))
				allowed, count, err := store.FixedWindowAllow(ctx, key, int64(cfg.LoginRateLimit), cfg.LoginRateWindow)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					respondRateLimited(ctx, logg, w, scope, "username", count, cfg)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, scope, kind string, count int64, cfg config.AuthConfig) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"kind":           kind,
			"attempts":       count,
			"limit":          cfg.LoginRateLimit,
			"window_seconds": int(cfg.LoginRateWindow.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractUsername(payload []byte) string {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Username
}

func normalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
