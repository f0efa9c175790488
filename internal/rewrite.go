package internal

import (
	"io"
	"net/http"
	"net/url"
)

// RewritePayload names a rewrite target: either a path resolved against the
// current request URL, or a full replacement request.
type RewritePayload interface {
	rewriteTarget()
}

// unexported name used by Response so the marker stays an implementation
// detail of the core.
type rewriteTarget = RewritePayload

// RewritePath rewrites to a path, keeping the current request.
type RewritePath string

func (RewritePath) rewriteTarget() {}

// RewriteRequest rewrites to a full replacement request.
type RewriteRequest struct {
	Request *http.Request
}

func (RewriteRequest) rewriteTarget() {}

// rewriteResolution is the outcome of resolving a payload against the route
// table: where the next render attempt goes and with what request.
type rewriteResolution struct {
	Route   *RouteData
	Params  Params
	URL     *url.URL
	Request *http.Request
}

// resolveRewrite maps a payload to a concrete route. The replacement request
// is nil for path payloads; the caller decides whether to keep or clone the
// live request depending on which rewrite flow asked.
func resolveRewrite(routes *Routes, base *url.URL, method string, payload RewritePayload) (*rewriteResolution, error) {
	switch p := payload.(type) {
	case RewritePath:
		target, err := url.Parse(string(p))
		if err != nil {
			return nil, err
		}
		if base != nil {
			target = base.ResolveReference(target)
		}
		rd, params := routes.Match(method, target.Path)
		if rd == nil {
			return nil, ErrNoMatchingRoute
		}
		return &rewriteResolution{Route: rd, Params: params, URL: target}, nil

	case RewriteRequest:
		rd, params := routes.Match(p.Request.Method, p.Request.URL.Path)
		if rd == nil {
			return nil, ErrNoMatchingRoute
		}
		return &rewriteResolution{Route: rd, Params: params, URL: p.Request.URL, Request: p.Request}, nil

	default:
		return nil, ErrNoMatchingRoute
	}
}

// bodyTracker wraps a request body and remembers whether any byte of it has
// been read. A consumed body cannot be replayed into a rewritten request.
type bodyTracker struct {
	rc       io.ReadCloser
	consumed bool
}

func trackBody(r *http.Request) *bodyTracker {
	if r.Body == nil || r.Body == http.NoBody {
		return &bodyTracker{}
	}
	t := &bodyTracker{rc: r.Body}
	r.Body = t
	return t
}

func (t *bodyTracker) Read(p []byte) (int, error) {
	if t.rc == nil {
		return 0, io.EOF
	}
	t.consumed = true
	return t.rc.Read(p)
}

func (t *bodyTracker) Close() error {
	if t.rc == nil {
		return nil
	}
	return t.rc.Close()
}

// cloneForRewrite duplicates the live request for a context-API rewrite,
// pointing it at the target URL. It refuses to clone once the original body
// has been consumed, since the bytes cannot be produced a second time.
func cloneForRewrite(r *http.Request, tracker *bodyTracker, target *url.URL) (*http.Request, error) {
	if tracker != nil && tracker.consumed {
		return nil, ErrRewriteBodyConsumed
	}
	clone := r.Clone(r.Context())
	clone.URL = target
	clone.RequestURI = ""
	return clone, nil
}
