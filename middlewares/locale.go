package middlewares

import (
	"github.com/dmitrymomot/renderkit/internal"
)

// LocaleRewrite sends visitors whose path carries no locale to the
// locale-prefixed variant of the same page, using the Accept-Language
// negotiation result. The rewrite is internal: the URL in the browser does
// not change.
func LocaleRewrite() internal.Middleware {
	return func(ctx *internal.APIContext, next internal.NextFunc) (*internal.Response, error) {
		if ctx.CurrentLocale() != "" {
			return next()
		}
		preferred := ctx.PreferredLocale()
		if preferred == "" {
			return next()
		}
		return next(internal.RewritePath("/" + preferred + ctx.Pathname()))
	}
}
