package session

import (
	"context"
	"time"
)

// Filter selects sessions by equality on any combination of fields; zero
// values are ignored.
type Filter struct {
	ID      string
	OwnerID string
	Status  Status
}

// Sort orders a Find result by a single field.
type Sort struct {
	Field string // "created_at" or "updated_at"
	Desc  bool
}

// Patch carries the fields UpdateOne writes. Nil pointers leave the stored
// value untouched; UpdatedAt is always written.
type Patch struct {
	Title     *string
	Tags      *[]string
	DataURL   *string
	Status    *Status
	UpdatedAt time.Time
}

// Store persists sessions. UpdateOne and DeleteOne match atomically on the
// full filter so ownership checks ride on the store's per-document
// atomicity.
type Store interface {
	Find(ctx context.Context, f Filter, sort Sort, limit int64) ([]Session, error)
	FindOne(ctx context.Context, f Filter) (*Session, error)
	Insert(ctx context.Context, s Session) error

	// UpdateOne applies the patch to the single session matching the filter
	// and returns the updated document, or nil when nothing matched.
	UpdateOne(ctx context.Context, f Filter, p Patch) (*Session, error)

	// DeleteOne removes the single session matching the filter, reporting
	// whether a document was removed.
	DeleteOne(ctx context.Context, f Filter) (bool, error)
}
