package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/dmitrymomot/renderkit"
	"github.com/dmitrymomot/renderkit/example/views"
	"github.com/dmitrymomot/renderkit/middlewares"
	"github.com/dmitrymomot/renderkit/pkg/cache"
	"github.com/dmitrymomot/renderkit/pkg/health"
	"github.com/dmitrymomot/renderkit/pkg/logger"
	"github.com/dmitrymomot/renderkit/pkg/redis"
)

func main() {
	ctx := context.Background()

	slogger := logger.New(slog.LevelDebug, middlewares.RequestIDExtractor)
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		slogger = logger.NewWithSentry(logger.SentryConfig{
			DSN:         dsn,
			Environment: getEnv("ENVIRONMENT", "development"),
		}, middlewares.RequestIDExtractor)
	}

	manifest := &renderkit.Manifest{
		Site:          "https://example.com",
		TrailingSlash: renderkit.TrailingSlashNever,
		Components: map[string]renderkit.ComponentMetadata{
			"Post": {Styles: []string{"/assets/post.css"}},
		},
	}

	checks := health.Checks{}
	var runOpts []renderkit.RunOption

	opts := []renderkit.Option{
		renderkit.WithCustomLogger(slogger),
		renderkit.WithManifest(manifest),
		renderkit.WithServerOutput("standalone"),
		renderkit.WithI18n(renderkit.I18nConfig{
			DefaultLocale: "en",
			Locales:       []string{"en", "de"},
			Strategy:      "prefix-other-locales",
		}),

		renderkit.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(slogger),
			middlewares.Logging(slogger),
		),

		renderkit.WithPropsResolver(resolveProps),

		renderkit.WithPage("/", "Home", renderPage("Home", views.Home)),
		renderkit.WithPage("/de", "Home", renderPage("Home", views.Home)),
		renderkit.WithPage("/blog/{slug}", "Post", renderPage("Post", views.Post)),
		renderkit.WithRedirect("/posts/{slug}", "/blog/{slug}", http.StatusMovedPermanently),
		renderkit.WithErrorPage(http.StatusNotFound, "NotFound", renderPage("Not Found", views.NotFound)),
	}

	// Shared head-element cache when Redis is available
	if url := os.Getenv("REDIS_URL"); url != "" {
		client, err := redis.Open(ctx, url)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, renderkit.WithHeadCache(
			cache.NewRedis[[]renderkit.HeadElement](client, cache.WithPrefix("renderkit:heads")),
		))
		checks["redis"] = redis.Healthcheck(client)
		runOpts = append(runOpts, renderkit.OnShutdown(redis.Shutdown(client)))
	}

	opts = append(opts, renderkit.WithEndpoint("/api/healthz", "healthz", healthz(checks)))
	runOpts = append(runOpts, renderkit.RunLogger(slogger))

	app := renderkit.New(opts...)
	if err := app.Run(getEnv("ADDRESS", ":8080"), runOpts...); err != nil {
		log.Fatal(err)
	}
}

// renderPage wraps a body view into the shared document shell.
func renderPage(title string, body func(*renderkit.ComponentScope) renderkit.Component) renderkit.PageRenderer {
	return func(scope *renderkit.ComponentScope, result *renderkit.RenderResult) (renderkit.Component, error) {
		return views.Page(title, body(scope), result), nil
	}
}

func resolveProps(_ context.Context, route *renderkit.RouteData, params renderkit.Params, _ *http.Request) (renderkit.Props, error) {
	if route.Component != "Post" {
		return nil, nil
	}
	return renderkit.Props{
		"title":   params["slug"],
		"content": "Lorem ipsum dolor sit amet.",
	}, nil
}

func healthz(checks health.Checks) renderkit.EndpointHandler {
	return func(ctx *renderkit.APIContext) (*renderkit.Response, error) {
		report := health.Run(ctx.Context(), checks)

		status := http.StatusOK
		if report.Status == health.StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		body, err := json.Marshal(report)
		if err != nil {
			return nil, err
		}

		resp := renderkit.NewResponse(status)
		resp.Header.Set("Content-Type", "application/json")
		resp.Body = bytes.NewReader(body)
		return resp, nil
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
