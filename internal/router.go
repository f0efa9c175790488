package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes is the route table of one app: an ordered set of route
// descriptors with a chi-backed matcher. Registration happens during app
// construction; matching is read-only and safe for concurrent use.
type Routes struct {
	mux       *chi.Mux
	byPattern map[string]*RouteData
	ordered   []*RouteData
}

// NewRoutes creates an empty route table.
func NewRoutes() *Routes {
	return &Routes{
		mux:       chi.NewRouter(),
		byPattern: make(map[string]*RouteData),
	}
}

// Add registers a route descriptor. Registering the same pattern twice
// replaces the previous descriptor, matching chi's own behavior.
func (rs *Routes) Add(rd *RouteData) {
	if _, ok := rs.byPattern[rd.Pattern]; ok {
		for i, existing := range rs.ordered {
			if existing.Pattern == rd.Pattern {
				rs.ordered[i] = rd
				break
			}
		}
	} else {
		// chi needs a handler per pattern; matching only consults the
		// route context, so a stub is enough.
		rs.mux.Handle(rd.Pattern, http.NotFoundHandler())
		rs.ordered = append(rs.ordered, rd)
	}
	rs.byPattern[rd.Pattern] = rd
}

// Match resolves a method+path to a registered route and its URL params.
// Returns nil when nothing matches.
func (rs *Routes) Match(method, path string) (*RouteData, Params) {
	rctx := chi.NewRouteContext()
	if !rs.mux.Match(rctx, method, path) {
		return nil, nil
	}
	rd, ok := rs.byPattern[rctx.RoutePattern()]
	if !ok {
		return nil, nil
	}

	params := make(Params, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return rd, params
}

// All returns the registered descriptors in registration order.
func (rs *Routes) All() []*RouteData {
	return rs.ordered
}
