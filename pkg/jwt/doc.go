// Package jwt implements HMAC-SHA256 JSON Web Tokens with a minimal surface:
// generate, parse, and bearer-header extraction. HS256 is deliberately the
// only supported algorithm.
package jwt
