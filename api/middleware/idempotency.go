package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Ani07-05/brickdash/api/responses"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
	pkgredis "github.com/Ani07-05/brickdash/pkg/redis"
)

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

type routeMatcher func(string) bool

type idempotencyRule struct {
	method  string
	matcher routeMatcher
	ttl     time.Duration
}

var idempotencyRules = []idempotencyRule{
	// 24h TTL endpoints
	{method: http.MethodPost, matcher: matchExact("/api/v1/auth/register"), ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, matcher: matchExact("/api/v1/orders"), ttl: defaultIdempotencyTTL},
	{method: http.MethodPut, matcher: matchExact("/api/v1/inventory/stock"), ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, matcher: matchExact("/api/v1/inventory/batches"), ttl: defaultIdempotencyTTL},
	// 7d TTL endpoints: batch workflow mutations and payroll generation
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/inventory/batches/", "/transfer"), ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/inventory/batches/", "/adjust"), ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/inventory/batches/", "/reserve"), ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/inventory/batches/", "/unreserve"), ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, matcher: matchExact("/api/v1/payroll/generate"), ttl: criticalIdempotencyTTL},
}

// idempotencyRecord is the persisted replay payload. The body is base64 so
// the JSON record survives binary responses.
type idempotencyRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

func (rec *idempotencyRecord) replay(w http.ResponseWriter) {
	if rec == nil {
		return
	}
	if ct := rec.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(rec.Status)
	if body, err := base64.StdEncoding.DecodeString(rec.Body); err == nil {
		_, _ = w.Write(body)
	}
}

// Idempotency replays the stored response when a mutation arrives twice with
// the same Idempotency-Key, and rejects key reuse across different bodies.
// Routes outside the rule table pass through untouched.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	mw := idempotencyMiddleware{store: store, logg: logg}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, routePattern(r))
			if !ok || mw.store == nil {
				next.ServeHTTP(w, r)
				return
			}
			mw.handle(w, r, next, ttl)
		})
	}
}

type idempotencyMiddleware struct {
	store pkgredis.IdempotencyStore
	logg  *logger.Logger
}

func (mw idempotencyMiddleware) handle(w http.ResponseWriter, r *http.Request, next http.Handler, ttl time.Duration) {
	ctx := r.Context()

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idempotencyKey == "" {
		responses.WriteError(ctx, mw.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(ctx, mw.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	requestHash := base64.StdEncoding.EncodeToString(sum[:])

	scope := strings.Join([]string{UserIDFromContext(ctx), r.Method, r.URL.Path}, "|")
	key := mw.store.IdempotencyKey(scope, idempotencyKey)

	stored, err := mw.store.Get(ctx, key)
	switch {
	case err != nil && !errors.Is(err, redis.Nil):
		responses.WriteError(ctx, mw.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return
	case stored != "":
		var rec idempotencyRecord
		if err := json.Unmarshal([]byte(stored), &rec); err != nil {
			responses.WriteError(ctx, mw.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
			return
		}
		if rec.RequestHash != requestHash {
			responses.WriteError(ctx, mw.logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
			return
		}
		rec.replay(w)
		return
	}

	buf := &bufferingWriter{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(buf, r)

	mw.persist(r, key, requestHash, buf, ttl)
}

// persist stores the captured response. Failures here are logged and
// swallowed so a redis hiccup never masks a completed mutation.
func (mw idempotencyMiddleware) persist(r *http.Request, key, requestHash string, buf *bufferingWriter, ttl time.Duration) {
	rec := idempotencyRecord{
		Status:      buf.status,
		Body:        base64.StdEncoding.EncodeToString(buf.body.Bytes()),
		RequestHash: requestHash,
	}
	if ct := buf.Header().Get("Content-Type"); ct != "" {
		rec.Headers = map[string]string{"Content-Type": ct}
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		if mw.logg != nil {
			mw.logg.Error(r.Context(), "marshal idempotency record", err)
		}
		return
	}
	if _, err := mw.store.SetNX(r.Context(), key, string(payload), ttl); err != nil && mw.logg != nil {
		mw.logg.Error(r.Context(), "persist idempotency record", err)
	}
}

func routePattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	if pattern == "" {
		return 0, false
	}
	for _, rule := range idempotencyRules {
		if rule.method == method && rule.matcher(pattern) {
			return rule.ttl, true
		}
	}
	return 0, false
}

func matchExact(path string) routeMatcher {
	return func(pattern string) bool { return pattern == path }
}

func matchPrefixSuffix(prefix, suffix string) routeMatcher {
	return func(pattern string) bool {
		return strings.HasPrefix(pattern, prefix) && strings.HasSuffix(pattern, suffix)
	}
}

// bufferingWriter tees the response so it can be replayed later.
type bufferingWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (b *bufferingWriter) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}
