package auth

import "context"

// UserStore persists user accounts. Email lookups are case-insensitive by
// convention: callers lowercase the email before calling.
type UserStore interface {
	Insert(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
