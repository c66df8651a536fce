// Package client is the editor-facing library for the session API: a thin
// HTTP client, a server-authoritative session cache (State), and an Editor
// that implements the debounced auto-save protocol.
//
// The cache discipline is strict: entries change only when a server
// response arrives, never on optimistic local guesses. The Editor guards
// writes so a manual save and an auto-save are never in flight together
// for the same session.
package client
