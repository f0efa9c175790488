// Package middlewares provides common middleware for renderkit
// applications: request ID propagation, panic recovery, request logging
// and locale-driven rewrites.
package middlewares
