package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func newBufferedLogger(opts Options) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	opts.Output = buf
	if opts.ServiceName == "" {
		opts.ServiceName = "test"
	}
	return New(opts), buf
}

func TestErrorCarriesContextFields(t *testing.T) {
	log, buf := newBufferedLogger(Options{Level: ParseLevel("debug")})

	ctx := log.WithRequestID(context.Background(), "req-123")
	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
}

func TestActorFieldsPropagate(t *testing.T) {
	log, buf := newBufferedLogger(Options{Level: ParseLevel("debug")})

	ctx := log.WithUserID(context.Background(), "u-77")
	ctx = log.WithActorRole(ctx, "Supervisor")
	log.Info(ctx, "stock adjusted")

	out := buf.Bytes()
	if !bytes.Contains(out, []byte("u-77")) || !bytes.Contains(out, []byte("Supervisor")) {
		t.Fatalf("expected actor fields in entry; got %s", buf.String())
	}
}

func TestWarnStackToggle(t *testing.T) {
	log, buf := newBufferedLogger(Options{Level: ParseLevel("debug"), WarnStack: true})

	log.Warn(context.Background(), "warny")

	if !bytes.Contains(buf.Bytes(), []byte("warny")) {
		t.Fatalf("expected warn entry; got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"invalid": zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"debug":   zerolog.DebugLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
