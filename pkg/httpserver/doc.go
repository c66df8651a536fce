// Package httpserver wraps net/http's server with graceful shutdown, signal
// handling, and env-driven configuration.
package httpserver
