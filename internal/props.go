package internal

import (
	"context"
	"net/http"
)

// Props are the values a route resolves for its component before rendering.
type Props map[string]any

// PropsResolver produces the props for a matched route. It runs at most once
// per request: resolved props survive rewrites.
type PropsResolver func(ctx context.Context, route *RouteData, params Params, r *http.Request) (Props, error)

// propsCache memoizes the resolver outcome for one request.
type propsCache struct {
	resolved bool
	props    Props
}

func (c *propsCache) get(ctx context.Context, resolve PropsResolver, route *RouteData, params Params, r *http.Request) (Props, error) {
	if c.resolved {
		return c.props, nil
	}
	if resolve == nil {
		c.resolved = true
		c.props = Props{}
		return c.props, nil
	}
	props, err := resolve(ctx, route, params, r)
	if err != nil {
		return nil, err
	}
	if props == nil {
		props = Props{}
	}
	c.resolved = true
	c.props = props
	return props, nil
}
