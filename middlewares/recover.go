package middlewares

import (
	"log/slog"
	"runtime/debug"

	"github.com/dmitrymomot/renderkit/internal"
)

// Recover converts panics from downstream middleware and handlers into
// errors so the entry point can route them through the error page. The
// stack is logged at error level.
func Recover(log *slog.Logger) internal.Middleware {
	return func(ctx *internal.APIContext, next internal.NextFunc) (resp *internal.Response, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				if log != nil {
					log.ErrorContext(ctx.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("path", ctx.Pathname()),
						slog.String("stack", string(debug.Stack())))
				}
				resp = nil
				err = &internal.PanicError{Value: rec}
			}
		}()
		return next()
	}
}
