// Package logger provides structured logging for the key-value store.
//
// It wraps log/slog with:
//
//   - logger.go: JSON/text handler selection, level control, a global
//     default logger
//   - context.go: context-aware logging with request ID propagation
//   - redact.go: sensitive field redaction by key name
package logger
