// Package logger builds slog loggers with environment presets and automatic
// injection of context-scoped attributes such as the request id.
package logger
