package internal

import (
	"io"
	"net/http"
	"strings"

	"github.com/dmitrymomot/renderkit/pkg/cookies"
)

// Response is the value produced by every dispatch path: pages, endpoints,
// redirects, fallbacks and middleware short-circuits. It carries the HTTP
// surface plus two side channels the transport never sees directly: the
// cookie jar collected while producing it, and a pending rewrite payload
// when a handler asked for re-entry instead of answering.
type Response struct {
	Status int
	Header http.Header
	Body   io.Reader

	cookies *cookies.Jar
	rewrite rewriteTarget
}

// NewResponse creates a response with an initialized header map.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: make(http.Header)}
}

// TextResponse creates a plain-text response with the given body.
func TextResponse(status int, body string) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	resp.Body = strings.NewReader(body)
	return resp
}

// Cookies returns the jar attached to this response, or nil.
func (r *Response) Cookies() *cookies.Jar { return r.cookies }

// AttachCookies associates a jar with the response so an outer render pass
// can fold its operations into the request-level jar.
func (r *Response) AttachCookies(jar *cookies.Jar) { r.cookies = jar }

// IsRewrite reports whether the response is a rewrite marker rather than a
// real answer.
func (r *Response) IsRewrite() bool { return r.rewrite != nil }

// WriteTo streams the response through an http.ResponseWriter. Headers and
// status are committed before the first body byte.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	for key, values := range r.Header {
		w.Header()[key] = values
	}
	w.WriteHeader(r.Status)
	if r.Body == nil {
		return nil
	}
	_, err := io.Copy(w, r.Body)
	return err
}
