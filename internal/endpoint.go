package internal

import "fmt"

// invokeEndpoint runs the handler registered for an endpoint route. The
// handler's response is returned as-is: no content-type defaulting and no
// internal tagging.
func (rc *RenderContext) invokeEndpoint() (*Response, error) {
	handler, ok := rc.pipeline.Endpoints[rc.route.Component]
	if !ok {
		return nil, fmt.Errorf("renderkit: no handler registered for endpoint %q", rc.route.Component)
	}
	return handler(rc.api)
}
