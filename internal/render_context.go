package internal

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/renderkit/pkg/cookies"
)

// maxRewrites bounds the rewrite chain: the attempt counter is incremented
// before every dispatch and reaching this value terminates the request with
// a fixed 508, no matter what the pending dispatch would have produced.
const maxRewrites = 4

// RenderContext is the per-request state machine. Exactly one exists per
// inbound request; rewrites mutate it in place instead of allocating a new
// one, so memoized state deliberately survives re-entry. It is used from a
// single goroutine and must not be shared.
type RenderContext struct {
	pipeline *Pipeline

	request  *http.Request
	url      *url.URL
	pathname string
	tracker  *bodyTracker

	route         *RouteData
	originalRoute *RouteData
	originalURL   *url.URL
	params        Params

	cookies *cookies.Jar
	locals  map[string]any
	locales localeCache
	props   propsCache

	status          int
	isRewriting     bool
	attempts        int
	responseStarted bool
	actionResult    any

	pageScope *PageScope
	api       *APIContext
}

// NewRenderContext builds the state machine for one matched request.
func NewRenderContext(p *Pipeline, r *http.Request, route *RouteData, params Params) *RenderContext {
	rc := &RenderContext{
		pipeline:      p,
		request:       r,
		url:           r.URL,
		pathname:      r.URL.Path,
		tracker:       trackBody(r),
		route:         route,
		originalRoute: route,
		originalURL:   r.URL,
		params:        params,
		cookies:       cookies.New(r),
		locals:        make(map[string]any),
		status:        http.StatusOK,
	}
	rc.api = &APIContext{rc: rc}
	return rc
}

// SetStatus overrides the status a page render responds with. The entry
// point uses it when routing a request to an error page.
func (rc *RenderContext) SetStatus(code int) { rc.status = code }

// SetActionResult carries the outcome of a preceding action invocation into
// the render result.
func (rc *RenderContext) SetActionResult(v any) { rc.actionResult = v }

// API returns the request surface exposed to middleware and endpoints.
func (rc *RenderContext) API() *APIContext { return rc.api }

// Render drives the request to a response. Each loop iteration is one full
// middleware-and-dispatch pass; a dispatch that asks for a rewrite resets
// the context and goes around again, up to the rewrite bound.
func (rc *RenderContext) Render() (*Response, error) {
	for {
		rc.attempts++
		if rc.attempts == maxRewrites {
			rc.pipeline.Logger.Debug("rewrite loop detected",
				"route", rc.originalRoute.Route,
				"path", rc.originalURL.Path)
			resp := TextResponse(http.StatusLoopDetected, "Loop Detected")
			rc.cookies.WriteTo(resp.Header)
			resp.AttachCookies(rc.cookies)
			return resp, nil
		}

		resp, err := rc.renderAttempt()
		if err != nil {
			return nil, err
		}
		if resp.IsRewrite() {
			if err := rc.applyRewrite(resp.rewrite); err != nil {
				return nil, err
			}
			continue
		}

		stripRouteType(resp.Header)
		if rc.isRewriting {
			tagRewritten(resp.Header)
		}
		rc.cookies.WriteTo(resp.Header)
		resp.AttachCookies(rc.cookies)
		return resp, nil
	}
}

// renderAttempt runs the middleware chain once. The terminal handler
// performs an inline rewrite when the chain forwarded a payload, then
// dispatches by route type.
func (rc *RenderContext) renderAttempt() (*Response, error) {
	terminal := func(payload ...RewritePayload) (*Response, error) {
		if len(payload) > 0 {
			if err := rc.applyMiddlewareRewrite(payload[0]); err != nil {
				return nil, err
			}
		}
		return rc.dispatch()
	}
	return rc.pipeline.Middleware(rc.api, terminal)
}

// applyMiddlewareRewrite moves the context to the payload target without
// touching the live request or URL: only the matched route, params, status
// and the rewriting flag change. Resolution is anchored on the originally
// matched URL so a chain of rewrites cannot drift from the first match.
func (rc *RenderContext) applyMiddlewareRewrite(payload RewritePayload) error {
	res, err := resolveRewrite(rc.pipeline.Routes, rc.originalURL, rc.request.Method, payload)
	if err != nil {
		return err
	}
	rc.pipeline.Logger.Debug("middleware rewrite",
		"from", rc.route.Route, "to", res.Route.Route)

	rc.route = res.Route
	rc.params = res.Params
	rc.status = http.StatusOK
	rc.isRewriting = true
	rc.pageScope = nil
	return nil
}

// applyRewrite performs the fuller reset triggered through the context API:
// new route, URL, request, cookie jar, params and pathname. Cookie
// operations recorded before the rewrite are folded into the fresh jar so
// later writes still win per name.
func (rc *RenderContext) applyRewrite(payload RewritePayload) error {
	res, err := resolveRewrite(rc.pipeline.Routes, rc.originalURL, rc.request.Method, payload)
	if err != nil {
		return err
	}

	next := res.Request
	if next == nil {
		next, err = cloneForRewrite(rc.request, rc.tracker, res.URL)
		if err != nil {
			return err
		}
	}
	rc.pipeline.Logger.Debug("context rewrite",
		"from", rc.route.Route, "to", res.Route.Route)

	jar := cookies.New(next)
	jar.Merge(rc.cookies)

	rc.request = next
	rc.tracker = trackBody(next)
	rc.url = res.URL
	rc.pathname = res.URL.Path
	rc.route = res.Route
	rc.params = res.Params
	rc.cookies = jar
	rc.status = http.StatusOK
	rc.isRewriting = true
	rc.pageScope = nil
	return nil
}

// dispatch produces a response for the currently matched route. Redirect
// and fallback routes return immediately; endpoint and page responses get
// any rewrite-originating cookies folded into the request jar so the outer
// response reflects every cookie set along the way.
func (rc *RenderContext) dispatch() (*Response, error) {
	switch rc.route.Type {
	case RouteTypeRedirect:
		return rc.renderRedirect()

	case RouteTypeFallback:
		resp := TextResponse(http.StatusInternalServerError, "Internal Server Error")
		tagRouteType(resp.Header, RouteTypeFallback)
		return resp, nil

	case RouteTypeEndpoint:
		resp, err := rc.invokeEndpoint()
		if err != nil {
			return nil, err
		}
		rc.cookies.Merge(resp.Cookies())
		return resp, nil

	case RouteTypePage:
		resp, err := rc.renderPage()
		if err != nil {
			return nil, err
		}
		rc.cookies.Merge(resp.Cookies())
		return resp, nil

	default:
		return nil, fmt.Errorf("renderkit: unknown route type %q", rc.route.Type)
	}
}

// renderPage builds a fresh render result and streams the page component.
// Any render failure marks the result cancelled before propagating so
// sibling renders already in flight stop cleanly.
func (rc *RenderContext) renderPage() (*Response, error) {
	render, ok := rc.pipeline.Pages[rc.route.Component]
	if !ok {
		return nil, fmt.Errorf("renderkit: no renderer registered for component %q", rc.route.Component)
	}

	props, err := rc.api.Props()
	if err != nil {
		return nil, err
	}
	head, err := rc.pipeline.HeadElements(rc.request.Context(), rc.route.Component)
	if err != nil {
		return nil, err
	}

	result := NewRenderResult(rc.pipeline.Manifest, head, rc.actionResult)
	scope := rc.pageScopeFor().ComponentView(rc.route.Component, props, nil)

	component, err := render(scope, result)
	if err != nil {
		result.Cancel()
		return nil, err
	}

	resp := NewResponse(rc.status)
	resp.Header.Set("Content-Type", "text/html;charset=UTF-8")
	tagRouteType(resp.Header, RouteTypePage)
	if rc.route.IsError {
		tagRerouteSuppressed(resp.Header)
	}

	if rc.pipeline.Streaming {
		pr, pw := io.Pipe()
		rc.responseStarted = true
		go func() {
			if err := component.Render(rc.request.Context(), pw); err != nil {
				result.Cancel()
				pw.CloseWithError(err)
				return
			}
			pw.Close()
		}()
		resp.Body = pr
		return resp, nil
	}

	var buf bytes.Buffer
	if err := component.Render(rc.request.Context(), &buf); err != nil {
		result.Cancel()
		return nil, err
	}
	resp.Body = &buf
	return resp, nil
}

// pageScopeFor returns the per-page ambient scope, building it once and
// reusing it across every component on the page. Rewrites drop it so the
// next attempt observes the rewritten route.
func (rc *RenderContext) pageScopeFor() *PageScope {
	if rc.pageScope != nil {
		return rc.pageScope
	}
	rc.pageScope = &PageScope{
		Site:                rc.pipeline.Manifest.Site,
		Generator:           rc.pipeline.Manifest.Generator,
		URL:                 rc.url,
		Pathname:            rc.pathname,
		Route:               rc.route.Route,
		Params:              rc.params,
		Request:             rc.request,
		Cookies:             rc.cookies,
		CurrentLocale:       rc.api.CurrentLocale(),
		PreferredLocale:     rc.api.PreferredLocale(),
		PreferredLocaleList: rc.api.PreferredLocaleList(),
	}
	return rc.pageScope
}
