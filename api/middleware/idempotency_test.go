package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

// memIdempotencyStore is an in-process stand-in for the redis-backed store.
type memIdempotencyStore struct {
	data map[string]string
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{data: map[string]string{}}
}

func (s *memIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *memIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key], _ = value.(string)
	return true, nil
}

func (s *memIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func (s *memIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func mutationRequest(method, path, body, key string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{path}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestIdempotencyRouteRules(t *testing.T) {
	cases := map[string]struct {
		method  string
		pattern string
		wantTTL time.Duration
		covered bool
	}{
		"order create":     {http.MethodPost, "/api/v1/orders", defaultIdempotencyTTL, true},
		"stock update":     {http.MethodPut, "/api/v1/inventory/stock", defaultIdempotencyTTL, true},
		"batch add":        {http.MethodPost, "/api/v1/inventory/batches", defaultIdempotencyTTL, true},
		"batch transfer":   {http.MethodPost, "/api/v1/inventory/batches/B001/transfer", criticalIdempotencyTTL, true},
		"batch reserve":    {http.MethodPost, "/api/v1/inventory/batches/B014/reserve", criticalIdempotencyTTL, true},
		"payroll generate": {http.MethodPost, "/api/v1/payroll/generate", criticalIdempotencyTTL, true},
		"login excluded":   {http.MethodPost, "/api/v1/auth/login", 0, false},
		"reads excluded":   {http.MethodGet, "/api/v1/orders", 0, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ttl, ok := routeTTL(tc.method, tc.pattern)
			if ok != tc.covered {
				t.Fatalf("expected covered=%v got %v", tc.covered, ok)
			}
			if ok && ttl != tc.wantTTL {
				t.Fatalf("expected ttl=%v got %v", tc.wantTTL, ttl)
			}
		})
	}
}

func TestIdempotencyMissingKeyRejected(t *testing.T) {
	mw := Idempotency(newMemIdempotencyStore(), nil)
	reached := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, mutationRequest(http.MethodPost, "/api/v1/orders", `{"product_id":1}`, ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if reached {
		t.Fatal("handler must not run without an idempotency key")
	}
}

func TestIdempotencyReplay(t *testing.T) {
	mw := Idempotency(newMemIdempotencyStore(), nil)
	calls := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	const body = `{"product_id":1,"quantity":500}`
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, mutationRequest(http.MethodPost, "/api/v1/orders", body, "abc"))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, mutationRequest(http.MethodPost, "/api/v1/orders", body, "abc"))

	if second.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", second.Code)
	}
	if got := second.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected content-type preserved, got %q", got)
	}
	if strings.TrimSpace(second.Body.String()) != `{"success":true}` {
		t.Fatalf("expected stored body, got %s", second.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyKeyReuseConflict(t *testing.T) {
	mw := Idempotency(newMemIdempotencyStore(), nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), mutationRequest(http.MethodPost, "/api/v1/orders", `{"quantity":500}`, "xyz"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, mutationRequest(http.MethodPost, "/api/v1/orders", `{"quantity":9000}`, "xyz"))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}
