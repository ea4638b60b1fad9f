package kit

import (
	"context"
	"log/slog"
	"time"
)

// LoggingMiddleware logs every invocation of the wrapped endpoint with its
// transport, duration and outcome.
func LoggingMiddleware(logger *slog.Logger, name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			started := time.Now()
			resp, err := next(ctx, request)
			if err != nil {
				logger.Warn("endpoint failed",
					"endpoint", name, "transport", GetTransport(ctx),
					"took", time.Since(started), "error", err)
				return nil, err
			}
			logger.Debug("endpoint served",
				"endpoint", name, "transport", GetTransport(ctx),
				"took", time.Since(started))
			return resp, nil
		}
	}
}
