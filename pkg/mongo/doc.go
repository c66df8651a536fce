// Package mongo provides the MongoDB connector used by the session and user
// stores: retried connect, env configuration, and a readiness probe.
package mongo
