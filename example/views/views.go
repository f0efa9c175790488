package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/renderkit"
)

// Page builds the document shell around a body component, emitting the
// head elements collected in the render result.
func Page(title string, body renderkit.Component, result *renderkit.RenderResult) renderkit.Component {
	return renderkit.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if result.Cancelled() {
			return nil
		}
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title>", html.EscapeString(title)); err != nil {
			return err
		}
		for _, el := range result.Head {
			if err := headTag(el).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</head><body>"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func headTag(el renderkit.HeadElement) templ.Component {
	attrs := ""
	for key, value := range el.Attrs {
		attrs += fmt.Sprintf(" %s=%q", key, html.EscapeString(value))
	}
	if el.Content == "" && el.Tag != "script" {
		return templ.Raw(fmt.Sprintf("<%s%s>", el.Tag, attrs))
	}
	return templ.Raw(fmt.Sprintf("<%s%s>%s</%s>", el.Tag, attrs, el.Content, el.Tag))
}

// Home is the landing page body.
func Home(scope *renderkit.ComponentScope) renderkit.Component {
	greeting := "Welcome"
	if scope.Page.CurrentLocale == "de" {
		greeting = "Willkommen"
	}
	return templ.Raw(fmt.Sprintf("<h1>%s</h1><p>Rendered by %s</p>",
		greeting, html.EscapeString(scope.Page.Generator)))
}

// Post renders a blog post from resolved props.
func Post(scope *renderkit.ComponentScope) renderkit.Component {
	title, _ := scope.Props["title"].(string)
	content, _ := scope.Props["content"].(string)
	return templ.Raw(fmt.Sprintf("<article><h1>%s</h1><p>%s</p></article>",
		html.EscapeString(title), html.EscapeString(content)))
}

// NotFound is the 404 page body.
func NotFound(scope *renderkit.ComponentScope) renderkit.Component {
	return templ.Raw(fmt.Sprintf("<h1>Page not found</h1><p>No route matches %s.</p>",
		html.EscapeString(scope.Page.Pathname)))
}
