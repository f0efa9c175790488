package internal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/renderkit/pkg/cookies"
)

type ctxKey int

const clientAddressKey ctxKey = iota

// WithClientAddress stores the adapter-supplied client address on a request
// context.
func WithClientAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, clientAddressKey, addr)
}

// APIContext is the request surface handed to middleware and endpoint
// handlers. It is a thin view over the render context: every accessor reads
// live state, so a rewrite is immediately visible through it.
type APIContext struct {
	rc *RenderContext
}

// Context returns the request context.
func (c *APIContext) Context() context.Context { return c.rc.request.Context() }

// Request returns the live HTTP request.
func (c *APIContext) Request() *http.Request { return c.rc.request }

// URL returns the URL being rendered.
func (c *APIContext) URL() *url.URL { return c.rc.url }

// Pathname returns the path of the URL being rendered.
func (c *APIContext) Pathname() string { return c.rc.pathname }

// Params returns the URL params of the matched route.
func (c *APIContext) Params() Params { return c.rc.params }

// Cookies returns the request cookie jar. Mutations made here end up on the
// final response regardless of which dispatch path produces it.
func (c *APIContext) Cookies() *cookies.Jar { return c.rc.cookies }

// Site returns the configured site origin, empty when unset.
func (c *APIContext) Site() string { return c.rc.pipeline.Manifest.Site }

// Generator returns the generator identification string.
func (c *APIContext) Generator() string { return c.rc.pipeline.Manifest.Generator }

// Locals returns the mutable per-request value bag.
func (c *APIContext) Locals() map[string]any { return c.rc.locals }

// SetLocals replaces the locals wholesale. Only object values are accepted.
func (c *APIContext) SetLocals(v any) error {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return ErrLocalsNotObject
	}
	c.rc.locals = m
	return nil
}

// Props resolves the props of the matched route, at most once per request.
func (c *APIContext) Props() (Props, error) {
	return c.rc.props.get(c.Context(), c.rc.pipeline.Props, c.rc.route, c.rc.params, c.rc.request)
}

// CurrentLocale returns the locale of the page being rendered.
func (c *APIContext) CurrentLocale() string {
	return c.rc.locales.currentLocale(c.rc.pipeline.Locales, c.rc.route.Route, c.rc.pathname)
}

// PreferredLocale returns the visitor's best matching locale.
func (c *APIContext) PreferredLocale() string {
	return c.rc.locales.preferredLocale(c.rc.pipeline.Locales, c.rc.request)
}

// PreferredLocaleList returns every acceptable locale in preference order.
func (c *APIContext) PreferredLocaleList() []string {
	return c.rc.locales.preferredLocaleList(c.rc.pipeline.Locales, c.rc.request)
}

// ClientAddress returns the peer address supplied by the serving adapter.
// Prerendered routes and static output never have one.
func (c *APIContext) ClientAddress() (string, error) {
	if c.rc.route.Prerender || !c.rc.pipeline.ServerLike {
		return "", &ClientAddressError{}
	}
	if addr, ok := c.rc.request.Context().Value(clientAddressKey).(string); ok && addr != "" {
		return addr, nil
	}
	return "", &ClientAddressError{Adapter: c.rc.pipeline.AdapterName}
}

// Redirect builds a redirect response to location. The first status wins;
// 302 when none is given.
func (c *APIContext) Redirect(location string, status ...int) (*Response, error) {
	if c.rc.responseStarted {
		return nil, ErrResponseAlreadySent
	}
	code := http.StatusFound
	if len(status) > 0 {
		code = status[0]
	}
	resp := NewResponse(code)
	resp.Header.Set("Location", location)
	return resp, nil
}

// Rewrite re-enters the render flow against the payload target. The caller
// returns the marker response; the render loop intercepts it and performs
// the rewrite instead of sending it.
func (c *APIContext) Rewrite(payload RewritePayload) (*Response, error) {
	if c.rc.responseStarted {
		return nil, ErrResponseAlreadySent
	}
	return &Response{Status: http.StatusOK, Header: make(http.Header), rewrite: payload}, nil
}
