// Package redis provides the Redis connector backing the published-listing
// cache: retried connect, env configuration, and a readiness probe.
package redis
