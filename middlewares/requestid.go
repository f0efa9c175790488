package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/renderkit/internal"
	"github.com/dmitrymomot/renderkit/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked, in order, for an
// existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string
	ResponseHeader string
	Headers        []string
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers checked for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID assigns a unique ID to each request: reused from inbound
// headers when present, generated otherwise. The ID lands in the request
// context and on the response header.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx *internal.APIContext, next internal.NextFunc) (*internal.Response, error) {
		r := ctx.Request()

		var id string
		for _, header := range cfg.Headers {
			if v := r.Header.Get(header); v != "" {
				id = v
				break
			}
		}
		if id == "" {
			id = cfg.Generator()
		}

		*r = *r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		resp, err := next()
		if err != nil {
			return nil, err
		}
		if cfg.ResponseHeader != "" {
			resp.Header.Set(cfg.ResponseHeader, id)
		}
		return resp, nil
	}
}

// GetRequestID returns the request ID from the context, empty when the
// middleware did not run.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds the request ID to log entries. Pass it to
// renderkit.WithLogger.
func RequestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := GetRequestID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

var _ logger.ContextExtractor = RequestIDExtractor
