package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/wellspace/pkg/logger"
	"github.com/dmitrymomot/wellspace/pkg/validator"
)

// PublishedListingCap bounds the public listing.
const PublishedListingCap = 50

// Limits on user-supplied fields.
const (
	MaxTitleLen = 100
	MaxTagLen   = 30
)

// Service implements the session lifecycle: drafting, publishing, listing,
// and deletion, with ownership enforced on every per-user operation.
type Service struct {
	store Store
	cache *PublishedCache
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCache enables the redis cache for the public listing.
func WithCache(cache *PublishedCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides session id generation, used by tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService creates a session service over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPublished returns the newest published sessions, capped. Reads go
// through the cache when one is configured; cache failures degrade to the
// store.
func (s *Service) ListPublished(ctx context.Context) ([]Session, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "published cache read failed", logger.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	sessions, err := s.store.Find(ctx,
		Filter{Status: StatusPublished},
		Sort{Field: "created_at", Desc: true},
		PublishedListingCap,
	)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sessions); err != nil {
			s.log.WarnContext(ctx, "published cache write failed", logger.Error(err))
		}
	}
	return sessions, nil
}

// ListOwn returns every session the user owns, most recently edited first.
func (s *Service) ListOwn(ctx context.Context, userID string) ([]Session, error) {
	return s.store.Find(ctx,
		Filter{OwnerID: userID},
		Sort{Field: "updated_at", Desc: true},
		0,
	)
}

// GetOwn returns one owned session. A session that exists but belongs to
// someone else is reported exactly like a missing one.
func (s *Service) GetOwn(ctx context.Context, userID, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	found, err := s.store.FindOne(ctx, Filter{ID: id, OwnerID: userID})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// DraftInput carries the editable session fields for SaveDraft. SessionID
// empty means create.
type DraftInput struct {
	SessionID string
	Title     string
	Tags      []string
	DataURL   string
}

// Validate checks the editable fields, returning every violation at once.
func (in DraftInput) Validate() error {
	return validator.Apply(
		validator.RequiredString("title", in.Title),
		validator.MaxLenString("title", in.Title, MaxTitleLen),
		validator.MaxLenEach("tags", in.Tags, MaxTagLen),
		validator.RequiredString("json_file_url", in.DataURL),
		validator.BasicURL("json_file_url", in.DataURL),
	)
}

// normalizeTags trims whitespace and drops entries that end up empty.
// Duplicates and order are preserved.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SaveDraft creates a session when input carries no id, or updates an owned
// one. Saving never changes a published session back to draft. The returned
// bool reports whether the save created a new session.
func (s *Service) SaveDraft(ctx context.Context, userID string, in DraftInput) (*Session, bool, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.DataURL = strings.TrimSpace(in.DataURL)
	in.Tags = normalizeTags(in.Tags)
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	now := s.now().UTC()

	if in.SessionID == "" {
		created := Session{
			ID:        s.newID(),
			OwnerID:   userID,
			Title:     in.Title,
			Tags:      in.Tags,
			DataURL:   in.DataURL,
			Status:    StatusDraft,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.Insert(ctx, created); err != nil {
			return nil, false, err
		}
		s.log.InfoContext(ctx, "draft created",
			logger.SessionID(created.ID), logger.UserID(userID))
		return &created, true, nil
	}

	// The ownership filter makes check-and-update a single atomic store
	// operation; status is deliberately not patched so published stays
	// published.
	updated, err := s.store.UpdateOne(ctx,
		Filter{ID: in.SessionID, OwnerID: userID},
		Patch{Title: &in.Title, Tags: &in.Tags, DataURL: &in.DataURL, UpdatedAt: now},
	)
	if err != nil {
		return nil, false, err
	}
	if updated == nil {
		return nil, false, ErrNotFound
	}

	if updated.Published() {
		s.invalidatePublished(ctx)
	}
	s.log.InfoContext(ctx, "draft updated",
		logger.SessionID(updated.ID), logger.UserID(userID))
	return updated, false, nil
}

// Publish moves an owned session to published. Publishing an already
// published session succeeds and still refreshes updatedAt.
func (s *Service) Publish(ctx context.Context, userID, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validator.ValidationErrors{{Field: "sessionId", Message: "field is required"}}
	}

	status := StatusPublished
	updated, err := s.store.UpdateOne(ctx,
		Filter{ID: id, OwnerID: userID},
		Patch{Status: &status, UpdatedAt: s.now().UTC()},
	)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.invalidatePublished(ctx)
	s.log.InfoContext(ctx, "session published",
		logger.SessionID(updated.ID), logger.UserID(userID))
	return updated, nil
}

// DeleteOwn permanently removes an owned session.
func (s *Service) DeleteOwn(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrNotFound
	}
	deleted, err := s.store.DeleteOne(ctx, Filter{ID: id, OwnerID: userID})
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.invalidatePublished(ctx)
	s.log.InfoContext(ctx, "session deleted",
		logger.SessionID(id), logger.UserID(userID))
	return nil
}

func (s *Service) invalidatePublished(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "published cache invalidation failed", logger.Error(err))
	}
}
