// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON
// logging with configurable log levels. Output keys follow the Cloud Logging
// structured payload conventions so that severities survive ingestion when the
// handler runs on Cloud Functions or Cloud Run.
package logger
