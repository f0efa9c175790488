package internal

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/dmitrymomot/renderkit/pkg/cookies"
)

// HeadElement is one tag contributed to the document head.
type HeadElement struct {
	Tag     string
	Attrs   map[string]string
	Content string
}

// RenderResult is the write-once snapshot handed to the template renderer:
// manifest constants, the head contribution of the page, and the result of a
// preceding action invocation when one ran. The cancelled flag is the only
// mutable part: it is raised when rendering fails so sibling renders that
// already started stop emitting instead of producing corrupt output.
type RenderResult struct {
	Base          string
	TrailingSlash TrailingSlash
	Head          []HeadElement
	ActionResult  any

	cancelled bool
}

func NewRenderResult(m *Manifest, head []HeadElement, actionResult any) *RenderResult {
	return &RenderResult{
		Base:          m.Base,
		TrailingSlash: m.TrailingSlash,
		Head:          head,
		ActionResult:  actionResult,
	}
}

// Cancel marks the render as abandoned.
func (r *RenderResult) Cancel() { r.cancelled = true }

// Cancelled reports whether the render was abandoned mid-flight.
func (r *RenderResult) Cancelled() bool { return r.cancelled }

// PageScope is the ambient per-page environment exposed to templates. It is
// built once per page render and reused across every component on the page;
// a rewrite discards it so the next attempt sees the rewritten route.
type PageScope struct {
	Site      string
	Generator string
	URL       *url.URL
	Pathname  string
	Route     string
	Params    Params
	Request   *http.Request
	Cookies   *cookies.Jar

	CurrentLocale       string
	PreferredLocale     string
	PreferredLocaleList []string
}

// SlotProvider produces the named slots of a component instance.
type SlotProvider func() map[string]Component

// ComponentScope is the per-component view over a page scope: a copy of the
// page fields with component identity and props laid on top. Slots are
// materialized once, on first access.
type ComponentScope struct {
	Page  PageScope
	Self  string
	Props Props

	slots func() map[string]Component
}

// ComponentView derives a component scope from the page scope. Self starts
// as the component name and stays a placeholder until the template layer
// injects a richer identity. A nil provider yields no slots.
func (ps *PageScope) ComponentView(self string, props Props, provider SlotProvider) *ComponentScope {
	cs := &ComponentScope{Page: *ps, Self: self, Props: props}
	cs.slots = sync.OnceValue(func() map[string]Component {
		if provider == nil {
			return map[string]Component{}
		}
		return provider()
	})
	return cs
}

// Slots returns the named slots of this instance, building them on first
// call.
func (cs *ComponentScope) Slots() map[string]Component { return cs.slots() }

// Slot returns a single named slot and whether it exists.
func (cs *ComponentScope) Slot(name string) (Component, bool) {
	c, ok := cs.slots()[name]
	return c, ok
}
