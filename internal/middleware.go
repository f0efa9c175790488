package internal

// NextFunc advances the middleware chain. Calling it with a payload does not
// continue to the next handler: it re-enters routing against the payload
// target, anchored on the originally matched route.
type NextFunc func(payload ...RewritePayload) (*Response, error)

// Middleware wraps request handling. It may answer directly, call next and
// pass the response through, or call next with a rewrite payload.
type Middleware func(ctx *APIContext, next NextFunc) (*Response, error)

// Sequence folds a list of middlewares into one, running them in order.
// Payloads given to an inner next are forwarded outward untouched so the
// terminal handler sees the rewrite request no matter how deep the chain is.
func Sequence(mws ...Middleware) Middleware {
	switch len(mws) {
	case 0:
		return func(ctx *APIContext, next NextFunc) (*Response, error) {
			return next()
		}
	case 1:
		return mws[0]
	}

	return func(ctx *APIContext, next NextFunc) (*Response, error) {
		var run func(i int, payload ...RewritePayload) (*Response, error)
		run = func(i int, payload ...RewritePayload) (*Response, error) {
			if len(payload) > 0 || i >= len(mws) {
				return next(payload...)
			}
			return mws[i](ctx, func(p ...RewritePayload) (*Response, error) {
				return run(i+1, p...)
			})
		}
		return run(0)
	}
}
