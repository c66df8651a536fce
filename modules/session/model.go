package session

import "time"

// Status is the lifecycle state of a session. The transition is one-way:
// draft to published.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Session is a wellness session: metadata plus a URL pointing at the
// externally hosted JSON describing the actual flow. ID and OwnerID are
// immutable after creation.
type Session struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	Title     string    `bson:"title" json:"title"`
	Tags      []string  `bson:"tags" json:"tags"`
	DataURL   string    `bson:"json_file_url" json:"json_file_url"`
	Status    Status    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Published reports whether the session has been published.
func (s Session) Published() bool {
	return s.Status == StatusPublished
}
