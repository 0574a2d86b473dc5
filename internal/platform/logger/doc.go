// Package logger provides structured logging functionality for the function.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, using the field names Cloud Logging recognizes
// ("severity" and "message") so that lines written to stdout are ingested with
// the right level.
package logger
