// Package logger builds the slog loggers used across the render core.
//
// Loggers are plain *slog.Logger values. The package adds two things on
// top of the standard library: context extractors, which pull
// request-scoped attributes (request id, matched route) into every record
// at log time, and an optional Sentry destination that mirrors warnings
// and errors to Sentry while keeping stdout as the primary sink.
package logger
