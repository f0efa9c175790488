package internal

import (
	"net/http"
	"strings"
)

// renderRedirect answers a redirect-type route: status from the route (302
// when unset), Location pointing at the target, no body. It skips the
// post-dispatch cookie merge; the jar itself is attached once by the
// render epilogue like every other response.
func (rc *RenderContext) renderRedirect() (*Response, error) {
	status := rc.route.RedirectStatus
	if status == 0 {
		status = http.StatusFound
	}

	resp := NewResponse(status)
	resp.Header.Set("Location", expandRedirectTarget(rc.route.RedirectTarget, rc.params))
	return resp, nil
}

// expandRedirectTarget substitutes route params into a dynamic redirect
// target, e.g. /old/{slug} -> /new/{slug}.
func expandRedirectTarget(target string, params Params) string {
	if !strings.Contains(target, "{") {
		return target
	}
	for key, value := range params {
		target = strings.ReplaceAll(target, "{"+key+"}", value)
	}
	return target
}
