// Package renderkit is the server render core of a file-route-based site
// generator: given an inbound request and a matched route it resolves
// props, runs the middleware chain, performs internal rewrites with loop
// detection, dispatches to a page, endpoint or redirect renderer and
// produces a response with merged cookies and headers.
//
// # Quick Start
//
// Create an application with renderkit.New(), register routes and call
// Run() to serve:
//
//	app := renderkit.New(
//	    renderkit.WithManifest(manifest),
//	    renderkit.WithPage("/", "Home", pages.Home),
//	    renderkit.WithPage("/blog/{slug}", "Post", pages.Post),
//	    renderkit.WithRedirect("/old/{slug}", "/blog/{slug}", 301),
//	    renderkit.WithErrorPage(404, "NotFound", pages.NotFound),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Middleware and rewrites
//
// Middleware receives the API context and a next function. Calling next
// with a payload re-enters routing against the payload target instead of
// continuing the chain:
//
//	func Gate() renderkit.Middleware {
//	    return func(ctx *renderkit.APIContext, next renderkit.NextFunc) (*renderkit.Response, error) {
//	        if _, ok := ctx.Cookies().Get("session"); !ok {
//	            return next(renderkit.RewritePath("/login"))
//	        }
//	        return next()
//	    }
//	}
//
// Handlers can also call ctx.Rewrite, which performs a fuller reset of the
// request state. Rewrite chains are bounded; exceeding the bound answers
// 508 Loop Detected.
package renderkit
