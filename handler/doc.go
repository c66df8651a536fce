// Package handler provides the typed HTTP handler framework for the API:
// generic request binding, a Response interface, and the JSON envelope
// ({success, message, count, data, errors}) used by every endpoint.
package handler
