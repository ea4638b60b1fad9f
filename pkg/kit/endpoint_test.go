package kit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var calls []string
	record := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, request any) (any, error) {
				calls = append(calls, name)
				return next(ctx, request)
			}
		}
	}

	endpoint := Chain(record("outer"), record("middle"), record("inner"))(
		func(_ context.Context, _ any) (any, error) {
			calls = append(calls, "endpoint")
			return "ok", nil
		},
	)

	resp, err := endpoint(context.Background(), nil)
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if resp != "ok" {
		t.Errorf("resp = %v", resp)
	}
	want := []string{"outer", "middle", "inner", "endpoint"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	endpoint := Chain(LoggingMiddleware(logger, "series"))(
		func(ctx context.Context, _ any) (any, error) {
			return GetTransport(ctx), nil
		},
	)

	resp, err := endpoint(WithTransport(context.Background(), "mcp"), nil)
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if resp != "mcp" {
		t.Errorf("transport = %v, want mcp", resp)
	}
	out := buf.String()
	if !strings.Contains(out, "endpoint=series") || !strings.Contains(out, "transport=mcp") {
		t.Errorf("log output missing fields: %q", out)
	}
}

func TestLoggingMiddlewareError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	boom := errors.New("boom")
	endpoint := LoggingMiddleware(logger, "forecast")(
		func(_ context.Context, _ any) (any, error) {
			return nil, boom
		},
	)

	if _, err := endpoint(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !strings.Contains(buf.String(), "endpoint failed") {
		t.Errorf("error was not logged: %q", buf.String())
	}
}

func TestGetTransportDefault(t *testing.T) {
	if got := GetTransport(context.Background()); got != "http" {
		t.Errorf("default transport = %q, want http", got)
	}
}
