package internal

// RouteType discriminates how a matched route is dispatched.
type RouteType string

const (
	// RouteTypePage renders a component into an HTML response.
	RouteTypePage RouteType = "page"

	// RouteTypeEndpoint invokes a user handler that produces the
	// response directly (JSON APIs, file downloads, etc.).
	RouteTypeEndpoint RouteType = "endpoint"

	// RouteTypeRedirect produces a Location response without invoking
	// any component.
	RouteTypeRedirect RouteType = "redirect"

	// RouteTypeFallback is the synthetic type used when no route
	// matched and no error page is registered.
	RouteTypeFallback RouteType = "fallback"
)

// RouteData is the immutable identity of a matched route. It is looked up
// once per request and never mutated by the render core; rewrites swap
// the active pointer, they do not edit the descriptor.
type RouteData struct {
	Type RouteType

	// Pattern is the URL pattern in chi syntax, e.g. "/blog/{slug}".
	Pattern string

	// Route is the file-route string the pattern was derived from,
	// e.g. "pages/blog/[slug]". Used for logging and locale extraction.
	Route string

	// Component names the component rendered for page routes. The name
	// keys into the app's component registry and the manifest's
	// component metadata.
	Component string

	// RedirectTarget and RedirectStatus describe redirect routes.
	// The target may reference params as "{name}".
	RedirectTarget string
	RedirectStatus int

	// Prerender marks routes that are statically generated; the render
	// core refuses request-bound data (client address) for them.
	Prerender bool

	// IsError marks 404/500 pages so responses rendered from them can
	// be tagged to suppress further rerouting by outer middleware.
	IsError bool
}

// Params holds the URL parameters extracted when a pattern matched.
type Params map[string]string
