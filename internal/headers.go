package internal

import "net/http"

// Internal signaling headers. The route-type marker exists only for
// middleware running inside the render core and is stripped before the
// response leaves it; the other two are intentionally left on the response
// for outer request-handling layers.
const (
	HeaderRouteType = "X-Renderkit-Route-Type"
	HeaderReroute   = "X-Renderkit-Reroute"
	HeaderRewrite   = "X-Renderkit-Rewrite"
)

func tagRouteType(h http.Header, t RouteType) {
	h.Set(HeaderRouteType, string(t))
}

func tagRerouteSuppressed(h http.Header) {
	h.Set(HeaderReroute, "no")
}

func tagRewritten(h http.Header) {
	h.Set(HeaderRewrite, "yes")
}

func stripRouteType(h http.Header) {
	h.Del(HeaderRouteType)
}
