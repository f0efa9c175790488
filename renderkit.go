package renderkit

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/renderkit/internal"
	"github.com/dmitrymomot/renderkit/pkg/cache"
	"github.com/dmitrymomot/renderkit/pkg/i18n"
	"github.com/dmitrymomot/renderkit/pkg/logger"
)

// Type aliases - public API
type (
	// App is the HTTP entry point driving one render context per request.
	App = internal.App

	// APIContext is the request surface exposed to middleware and
	// endpoint handlers.
	APIContext = internal.APIContext

	// Middleware wraps request handling inside the render flow.
	Middleware = internal.Middleware

	// NextFunc advances the middleware chain, optionally carrying a
	// rewrite payload.
	NextFunc = internal.NextFunc

	// Response is the value every dispatch path produces.
	Response = internal.Response

	// RewritePayload names a rewrite target.
	RewritePayload = internal.RewritePayload

	// RewritePath rewrites to a path, keeping the current request.
	RewritePath = internal.RewritePath

	// RewriteRequest rewrites to a full replacement request.
	RewriteRequest = internal.RewriteRequest

	// Component is the interface for renderable templates.
	Component = internal.Component

	// ComponentFunc adapts a function to Component.
	ComponentFunc = internal.ComponentFunc

	// PageRenderer builds the root component for a page render.
	PageRenderer = internal.PageRenderer

	// EndpointHandler answers a non-page route.
	EndpointHandler = internal.EndpointHandler

	// PageScope is the ambient per-page environment exposed to templates.
	PageScope = internal.PageScope

	// ComponentScope is the per-component view over a page scope.
	ComponentScope = internal.ComponentScope

	// RenderResult is the write-once snapshot handed to the renderer.
	RenderResult = internal.RenderResult

	// HeadElement is one tag contributed to the document head.
	HeadElement = internal.HeadElement

	// Manifest holds build-time site configuration.
	Manifest = internal.Manifest

	// ComponentMetadata describes the assets a component contributes.
	ComponentMetadata = internal.ComponentMetadata

	// TrailingSlash is the site-wide trailing-slash policy.
	TrailingSlash = internal.TrailingSlash

	// RouteData describes one registered route.
	RouteData = internal.RouteData

	// RouteType classifies how a route is dispatched.
	RouteType = internal.RouteType

	// Params are the URL params of a matched route.
	Params = internal.Params

	// Props are the values a route resolves for its component.
	Props = internal.Props

	// PropsResolver produces the props for a matched route.
	PropsResolver = internal.PropsResolver

	// LocaleResolver computes per-request locale information.
	LocaleResolver = internal.LocaleResolver

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// I18nConfig configures locale resolution.
	I18nConfig = i18n.Config

	// ClientAddressError explains why the client address is unknown.
	ClientAddressError = internal.ClientAddressError

	// PanicError wraps a recovered panic from a handler.
	PanicError = internal.PanicError
)

// Trailing-slash policies.
const (
	TrailingSlashIgnore = internal.TrailingSlashIgnore
	TrailingSlashAlways = internal.TrailingSlashAlways
	TrailingSlashNever  = internal.TrailingSlashNever
)

// Route types.
const (
	RouteTypePage     = internal.RouteTypePage
	RouteTypeEndpoint = internal.RouteTypeEndpoint
	RouteTypeRedirect = internal.RouteTypeRedirect
	RouteTypeFallback = internal.RouteTypeFallback
)

// Sentinel errors.
var (
	ErrLocalsNotObject          = internal.ErrLocalsNotObject
	ErrResponseAlreadySent      = internal.ErrResponseAlreadySent
	ErrRewriteBodyConsumed      = internal.ErrRewriteBodyConsumed
	ErrNoMatchingRoute          = internal.ErrNoMatchingRoute
	ErrClientAddressUnavailable = internal.ErrClientAddressUnavailable
)

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := renderkit.New(
//	    renderkit.WithManifest(manifest),
//	    renderkit.WithPage("/", "Home", pages.Home),
//	    renderkit.WithMiddleware(middlewares.RequestID()),
//	)
//
//	err := app.Run(":8080", renderkit.RunLogger(slog))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewResponse creates a response with an initialized header map.
func NewResponse(status int) *Response {
	return internal.NewResponse(status)
}

// TextResponse creates a plain-text response with the given body.
func TextResponse(status int, body string) *Response {
	return internal.TextResponse(status, body)
}

// LoadManifest reads a YAML manifest from disk and applies defaults.
func LoadManifest(path string) (*Manifest, error) {
	return internal.LoadManifest(path)
}

// Sequence folds middlewares into one, run in order.
func Sequence(mws ...Middleware) Middleware {
	return internal.Sequence(mws...)
}

// App options

// WithManifest sets the site manifest.
func WithManifest(m *Manifest) Option {
	return internal.WithManifest(m)
}

// WithMiddleware adds global middleware, applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithPage registers a page route rendered by the given renderer.
func WithPage(pattern, component string, render PageRenderer) Option {
	return internal.WithPage(pattern, component, render)
}

// WithEndpoint registers an endpoint route.
func WithEndpoint(pattern, name string, handler EndpointHandler) Option {
	return internal.WithEndpoint(pattern, name, handler)
}

// WithRedirect registers a redirect route. 302 when no status is given.
func WithRedirect(pattern, target string, status ...int) Option {
	return internal.WithRedirect(pattern, target, status...)
}

// WithErrorPage registers the 404 or 500 page.
func WithErrorPage(status int, component string, render PageRenderer) Option {
	return internal.WithErrorPage(status, component, render)
}

// WithI18n enables locale resolution.
func WithI18n(cfg I18nConfig) Option {
	return internal.WithI18n(cfg)
}

// WithLocaleResolver replaces the default locale resolver.
func WithLocaleResolver(res LocaleResolver) Option {
	return internal.WithLocaleResolver(res)
}

// WithPropsResolver sets the props resolver for page routes.
func WithPropsResolver(fn PropsResolver) Option {
	return internal.WithPropsResolver(fn)
}

// WithHeadCache replaces the in-process head-element cache.
func WithHeadCache(c cache.Cache[[]HeadElement]) Option {
	return internal.WithHeadCache(c)
}

// WithStreaming enables streamed page bodies.
func WithStreaming() Option {
	return internal.WithStreaming()
}

// WithServerOutput marks the app as a live server and names the serving
// adapter when one is in front.
func WithServerOutput(adapter string) Option {
	return internal.WithServerOutput(adapter)
}

// WithLogger creates a JSON logger at the given level with optional
// context extractors and attaches it to the app.
//
// Example:
//
//	renderkit.New(
//	    renderkit.WithLogger(slog.LevelDebug, requestIDExtractor),
//	)
func WithLogger(level slog.Level, extractors ...ContextExtractor) Option {
	return internal.WithLogger(logger.New(level, extractors...))
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// Run options

// RunLogger sets the server lifecycle logger.
func RunLogger(l *slog.Logger) RunOption {
	return internal.RunLogger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// OnShutdown registers a hook run after the server stops accepting
// requests.
func OnShutdown(hook func(context.Context) error) RunOption {
	return internal.OnShutdown(hook)
}

// BaseContext binds the server lifetime to ctx in addition to signals.
func BaseContext(ctx context.Context) RunOption {
	return internal.BaseContext(ctx)
}
