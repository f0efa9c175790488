package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/renderkit/internal"
)

// Logging emits one debug entry per request with method, path, status and
// duration. Errors pass through untouched; they are logged by the entry
// point.
func Logging(log *slog.Logger) internal.Middleware {
	return func(ctx *internal.APIContext, next internal.NextFunc) (*internal.Response, error) {
		start := time.Now()
		resp, err := next()
		if err != nil {
			return nil, err
		}
		log.DebugContext(ctx.Context(), "request handled",
			slog.String("method", ctx.Request().Method),
			slog.String("path", ctx.Pathname()),
			slog.Int("status", resp.Status),
			slog.Duration("duration", time.Since(start)))
		return resp, nil
	}
}
