package internal

import (
	"context"
	"io"
	"log/slog"

	"github.com/dmitrymomot/renderkit/pkg/cache"
	"github.com/dmitrymomot/renderkit/pkg/logger"
)

// Component is anything that can stream markup. The signature matches
// templ.Component so generated templates plug in directly.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(ctx context.Context, w io.Writer) error

func (f ComponentFunc) Render(ctx context.Context, w io.Writer) error { return f(ctx, w) }

// PageRenderer builds the root component for a page render from the ambient
// scope and the render result snapshot.
type PageRenderer func(scope *ComponentScope, result *RenderResult) (Component, error)

// EndpointHandler answers a non-page route.
type EndpointHandler func(ctx *APIContext) (*Response, error)

// Pipeline bundles the read-only collaborators shared by every request:
// logger, manifest, route table, middleware chain, resolvers and renderers.
// It is built once at startup and never mutated afterwards.
type Pipeline struct {
	Logger      *slog.Logger
	Manifest    *Manifest
	Routes      *Routes
	Middleware  Middleware
	Streaming   bool
	ServerLike  bool
	AdapterName string
	Locales     LocaleResolver
	Props       PropsResolver
	Pages       map[string]PageRenderer
	Endpoints   map[string]EndpointHandler

	heads *cache.Loader[[]HeadElement]
}

// NewPipeline wires a pipeline with working defaults: a no-op logger, an
// empty middleware chain and an in-process head-element cache.
func NewPipeline(manifest *Manifest, routes *Routes) *Pipeline {
	heads := cache.NewMemory[[]HeadElement]()
	return &Pipeline{
		Logger:     logger.NewNope(),
		Manifest:   manifest,
		Routes:     routes,
		Middleware: Sequence(),
		Pages:      make(map[string]PageRenderer),
		Endpoints:  make(map[string]EndpointHandler),
		heads:      cache.NewLoader[[]HeadElement](heads, 0),
	}
}

// HeadElements resolves the head contribution of a component. Results are
// cached per component name, and concurrent first loads for the same
// component are coalesced.
func (p *Pipeline) HeadElements(ctx context.Context, component string) ([]HeadElement, error) {
	return p.heads.Get(ctx, component, func(ctx context.Context) ([]HeadElement, error) {
		return headElementsFor(p.Manifest.Metadata(component)), nil
	})
}

func headElementsFor(meta ComponentMetadata) []HeadElement {
	elems := make([]HeadElement, 0, len(meta.Scripts)+len(meta.Styles)+len(meta.Links))
	for _, src := range meta.Scripts {
		elems = append(elems, HeadElement{Tag: "script", Attrs: map[string]string{"type": "module", "src": src}})
	}
	for _, href := range meta.Styles {
		elems = append(elems, HeadElement{Tag: "link", Attrs: map[string]string{"rel": "stylesheet", "href": href}})
	}
	for _, href := range meta.Links {
		elems = append(elems, HeadElement{Tag: "link", Attrs: map[string]string{"rel": "preload", "href": href}})
	}
	return elems
}
