package internal

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/renderkit/pkg/cache"
	"github.com/dmitrymomot/renderkit/pkg/i18n"
	"github.com/dmitrymomot/renderkit/pkg/logger"
)

// Option configures the application.
type Option func(*builder)

// builder accumulates configuration until build assembles the immutable App.
type builder struct {
	logger      *slog.Logger
	manifest    *Manifest
	middlewares []Middleware
	routes      *Routes
	pages       map[string]PageRenderer
	endpoints   map[string]EndpointHandler
	locales     LocaleResolver
	props       PropsResolver
	streaming   bool
	serverLike  bool
	adapter     string
	headCache   cache.Cache[[]HeadElement]
	notFound    *RouteData
	serverError *RouteData
}

func newBuilder() *builder {
	return &builder{
		logger:    logger.NewNope(),
		routes:    NewRoutes(),
		pages:     make(map[string]PageRenderer),
		endpoints: make(map[string]EndpointHandler),
	}
}

func (b *builder) build() *App {
	if b.manifest == nil {
		b.manifest = &Manifest{}
		b.manifest.applyDefaults()
	}

	p := NewPipeline(b.manifest, b.routes)
	p.Logger = b.logger
	p.Middleware = Sequence(b.middlewares...)
	p.Locales = b.locales
	p.Props = b.props
	p.Streaming = b.streaming
	p.ServerLike = b.serverLike
	p.AdapterName = b.adapter
	p.Pages = b.pages
	p.Endpoints = b.endpoints
	if b.headCache != nil {
		p.heads = cache.NewLoader(b.headCache, 0)
	}

	return &App{
		pipeline:    p,
		logger:      b.logger,
		notFound:    b.notFound,
		serverError: b.serverError,
	}
}

// WithLogger sets the application logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithManifest sets the site manifest. Defaults are applied to missing
// fields.
func WithManifest(m *Manifest) Option {
	return func(b *builder) {
		if m != nil {
			m.applyDefaults()
			b.manifest = m
		}
	}
}

// WithMiddleware appends global middleware, run in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(b *builder) {
		b.middlewares = append(b.middlewares, mw...)
	}
}

// WithPage registers a page route. The pattern uses chi syntax, component
// names the renderer.
func WithPage(pattern, component string, render PageRenderer) Option {
	return func(b *builder) {
		b.routes.Add(&RouteData{
			Type:      RouteTypePage,
			Pattern:   pattern,
			Route:     pattern,
			Component: component,
		})
		b.pages[component] = render
	}
}

// WithEndpoint registers an endpoint route.
func WithEndpoint(pattern, name string, handler EndpointHandler) Option {
	return func(b *builder) {
		b.routes.Add(&RouteData{
			Type:      RouteTypeEndpoint,
			Pattern:   pattern,
			Route:     pattern,
			Component: name,
		})
		b.endpoints[name] = handler
	}
}

// WithRedirect registers a redirect route. The first status wins; 302 when
// none is given. Params from the pattern may appear in the target as
// {name}.
func WithRedirect(pattern, target string, status ...int) Option {
	return func(b *builder) {
		code := 0
		if len(status) > 0 {
			code = status[0]
		}
		b.routes.Add(&RouteData{
			Type:           RouteTypeRedirect,
			Pattern:        pattern,
			Route:          pattern,
			RedirectTarget: target,
			RedirectStatus: code,
		})
	}
}

// WithErrorPage registers the 404 or 500 page. Error pages are reachable by
// rewrite and by the entry point, and their responses carry the
// reroute-suppress marker.
func WithErrorPage(status int, component string, render PageRenderer) Option {
	return func(b *builder) {
		pattern := fmt.Sprintf("/%d", status)
		rd := &RouteData{
			Type:      RouteTypePage,
			Pattern:   pattern,
			Route:     pattern,
			Component: component,
			IsError:   true,
		}
		b.routes.Add(rd)
		b.pages[component] = render
		switch status {
		case http.StatusNotFound:
			b.notFound = rd
		case http.StatusInternalServerError:
			b.serverError = rd
		}
	}
}

// WithI18n enables locale resolution. Panics on an invalid config since
// this is a startup-time mistake.
func WithI18n(cfg i18n.Config) Option {
	return func(b *builder) {
		if err := cfg.Validate(); err != nil {
			panic(err)
		}
		b.locales = NewLocaleResolver(cfg)
	}
}

// WithLocaleResolver replaces the default locale resolver.
func WithLocaleResolver(res LocaleResolver) Option {
	return func(b *builder) {
		b.locales = res
	}
}

// WithPropsResolver sets the props resolver for page routes.
func WithPropsResolver(fn PropsResolver) Option {
	return func(b *builder) {
		b.props = fn
	}
}

// WithHeadCache replaces the in-process head-element cache, e.g. with a
// Redis backend shared across instances.
func WithHeadCache(c cache.Cache[[]HeadElement]) Option {
	return func(b *builder) {
		if c != nil {
			b.headCache = c
		}
	}
}

// WithStreaming enables streamed page bodies.
func WithStreaming() Option {
	return func(b *builder) {
		b.streaming = true
	}
}

// WithServerOutput marks the app as a live server rather than static
// output, and names the serving adapter when one is in front.
func WithServerOutput(adapter string) Option {
	return func(b *builder) {
		b.serverLike = true
		b.adapter = adapter
	}
}
