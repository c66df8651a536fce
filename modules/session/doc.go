// Package session is the heart of the platform: the wellness-session
// entity, its draft/publish lifecycle, and the REST surface exposing it.
//
// Sessions carry metadata plus a json_file_url pointing at the externally
// hosted JSON flow description; the platform never fetches or validates
// that file. Every per-user operation filters by owner id at the store, so
// acting on someone else's session is indistinguishable from acting on a
// missing one.
package session
