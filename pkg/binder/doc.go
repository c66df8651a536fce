// Package binder parses HTTP requests into typed structs. Each binder
// processes one source (JSON body, path parameters) and is applied by the
// handler wrapper in order; binders report themselves not applicable for
// requests they cannot serve.
package binder
