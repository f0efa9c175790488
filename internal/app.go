package internal

import (
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// App is the HTTP entry point: it owns the route table and the pipeline,
// applies the trailing-slash policy, matches routes and drives one render
// context per request. App is immutable after New.
type App struct {
	pipeline    *Pipeline
	logger      *slog.Logger
	notFound    *RouteData
	serverError *RouteData
}

// New assembles an app from options. Route registrations, middleware and
// pipeline collaborators are all supplied here; the app never changes
// afterwards.
func New(opts ...Option) *App {
	b := newBuilder()
	for _, opt := range opts {
		opt(b)
	}
	return b.build()
}

// Pipeline exposes the request collaborators, used by adapters and tests.
func (a *App) Pipeline() *Pipeline { return a.pipeline }

// ServeHTTP handles one request end to end: trailing-slash policy, route
// match, render, response write.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if loc, ok := a.trailingSlashRedirect(r); ok {
		http.Redirect(w, r, loc, http.StatusMovedPermanently)
		return
	}

	route, params := a.pipeline.Routes.Match(r.Method, r.URL.Path)
	status := 0
	if route == nil {
		if a.notFound == nil {
			http.NotFound(w, r)
			return
		}
		route, params = a.notFound, Params{}
		status = http.StatusNotFound
	}

	rc := NewRenderContext(a.pipeline, r, route, params)
	if status != 0 {
		rc.SetStatus(status)
	}

	resp, err := rc.Render()
	if err != nil {
		a.logger.Error("render failed",
			slog.String("route", route.Route),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		a.renderServerError(w, r, route)
		return
	}
	if err := resp.WriteTo(w); err != nil {
		a.logger.Debug("response write aborted", slog.Any("error", err))
	}
}

// renderServerError falls back to the registered 500 page, or a plain 500
// when none exists or the error page itself fails.
func (a *App) renderServerError(w http.ResponseWriter, r *http.Request, failed *RouteData) {
	if a.serverError != nil && failed != a.serverError {
		rc := NewRenderContext(a.pipeline, r, a.serverError, Params{})
		rc.SetStatus(http.StatusInternalServerError)
		if resp, err := rc.Render(); err == nil {
			_ = resp.WriteTo(w)
			return
		}
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// trailingSlashRedirect applies the manifest policy to GET and HEAD
// requests. Paths that look like files keep their shape under every policy.
func (a *App) trailingSlashRedirect(r *http.Request) (string, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return "", false
	}
	p := r.URL.Path
	if p == "" || p == "/" || path.Ext(p) != "" {
		return "", false
	}

	switch a.pipeline.Manifest.TrailingSlash {
	case TrailingSlashAlways:
		if !strings.HasSuffix(p, "/") {
			return redirectLocation(r.URL, p+"/"), true
		}
	case TrailingSlashNever:
		if strings.HasSuffix(p, "/") {
			return redirectLocation(r.URL, strings.TrimRight(p, "/")), true
		}
	}
	return "", false
}

func redirectLocation(u *url.URL, newPath string) string {
	loc := *u
	loc.Path = newPath
	return loc.String()
}
