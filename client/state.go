package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/wellspace/modules/session"
	"github.com/dmitrymomot/wellspace/pkg/logger"
)

// Notifier receives user-facing surfacing of operation outcomes. A nil-safe
// no-op implementation is used when none is provided.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

// State is the editor-facing session cache. Every entry comes from a server
// response; the cache is never mutated on optimistic guesses, so after a
// failed round trip it still holds the last known good server state.
type State struct {
	mu       sync.RWMutex
	api      *Client
	notifier Notifier
	log      *slog.Logger

	published []session.Session
	mine      []session.Session
	byID      map[string]session.Session
}

// StateOption configures a State.
type StateOption func(*State)

// WithNotifier sets the surfacing sink.
func WithNotifier(n Notifier) StateOption {
	return func(s *State) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithStateLogger sets the state logger.
func WithStateLogger(log *slog.Logger) StateOption {
	return func(s *State) {
		if log != nil {
			s.log = log
		}
	}
}

// NewState creates a session state over the API client.
func NewState(api *Client, opts ...StateOption) *State {
	s := &State{
		api:      api,
		notifier: noopNotifier{},
		log:      slog.Default(),
		byID:     make(map[string]session.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Published returns the cached public listing.
func (s *State) Published() []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]session.Session(nil), s.published...)
}

// Mine returns the cached own listing.
func (s *State) Mine() []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]session.Session(nil), s.mine...)
}

// Get returns a cached session by id.
func (s *State) Get(id string) (session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found, ok := s.byID[id]
	return found, ok
}

// RefreshPublished replaces the public listing from the server.
func (s *State) RefreshPublished(ctx context.Context) error {
	sessions, err := s.api.ListPublished(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to refresh published sessions", logger.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = sessions
	for _, sess := range sessions {
		s.byID[sess.ID] = sess
	}
	return nil
}

// RefreshMine replaces the own listing from the server.
func (s *State) RefreshMine(ctx context.Context) error {
	sessions, err := s.api.ListMine(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to refresh own sessions", logger.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mine = sessions
	for _, sess := range sessions {
		s.byID[sess.ID] = sess
	}
	return nil
}

// saveConfig carries per-save options.
type saveConfig struct {
	alive func() bool
}

// SaveOption configures a single save call.
type SaveOption func(*saveConfig)

// WithLiveness attaches a liveness check evaluated when the response
// arrives. A dead caller gets no surfacing, but the cache still absorbs the
// server state: the write happened.
func WithLiveness(alive func() bool) SaveOption {
	return func(c *saveConfig) {
		if alive != nil {
			c.alive = alive
		}
	}
}

// SaveDraft performs a manual save. The outcome is always surfaced (unless
// the caller reported itself dead by the time the response arrived).
func (s *State) SaveDraft(ctx context.Context, form DraftForm, opts ...SaveOption) (*session.Session, error) {
	cfg := applySaveOptions(opts)

	res, err := s.api.SaveDraft(ctx, form)
	if err != nil {
		if cfg.live() {
			s.notifier.Error(saveErrorMessage(err))
		}
		s.log.ErrorContext(ctx, "manual save failed", logger.Error(err))
		return nil, err
	}

	s.absorb(*res.Session)
	if cfg.live() {
		s.notifier.Success(res.Message)
	}
	return res.Session, nil
}

// AutoSaveDraft performs the same save as SaveDraft but with auto-save
// surfacing rules: failures are logged and never surfaced, and success is
// surfaced only while the session is still a draft. Edits to published
// sessions keep persisting silently.
func (s *State) AutoSaveDraft(ctx context.Context, form DraftForm, opts ...SaveOption) (*session.Session, error) {
	cfg := applySaveOptions(opts)

	res, err := s.api.SaveDraft(ctx, form)
	if err != nil {
		s.log.ErrorContext(ctx, "auto-save failed", logger.Error(err))
		return nil, err
	}

	s.absorb(*res.Session)
	if cfg.live() && !res.Session.Published() {
		s.notifier.Success(res.Message)
	}
	return res.Session, nil
}

// Publish publishes the session. surface controls whether the outcome is
// announced, so save-then-publish flows announce once.
func (s *State) Publish(ctx context.Context, id string, surface bool) (*session.Session, error) {
	res, err := s.api.Publish(ctx, id)
	if err != nil {
		if surface {
			s.notifier.Error(saveErrorMessage(err))
		}
		s.log.ErrorContext(ctx, "publish failed", logger.SessionID(id), logger.Error(err))
		return nil, err
	}

	s.absorb(*res.Session)
	if surface {
		s.notifier.Success(res.Message)
	}
	return res.Session, nil
}

// Delete removes the session and drops it from the cache.
func (s *State) Delete(ctx context.Context, id string, surface bool) error {
	res, err := s.api.Delete(ctx, id)
	if err != nil {
		if surface {
			s.notifier.Error(saveErrorMessage(err))
		}
		s.log.ErrorContext(ctx, "delete failed", logger.SessionID(id), logger.Error(err))
		return err
	}

	s.mu.Lock()
	delete(s.byID, id)
	s.mine = dropByID(s.mine, id)
	s.published = dropByID(s.published, id)
	s.mu.Unlock()

	if surface {
		s.notifier.Success(res.Message)
	}
	return nil
}

// absorb replaces the cached entry with the server-returned representation.
func (s *State) absorb(sess session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[sess.ID] = sess

	replaced := false
	for i := range s.mine {
		if s.mine[i].ID == sess.ID {
			s.mine[i] = sess
			replaced = true
			break
		}
	}
	if !replaced {
		s.mine = append([]session.Session{sess}, s.mine...)
	}
}

func (c *saveConfig) live() bool {
	return c.alive == nil || c.alive()
}

func applySaveOptions(opts []SaveOption) *saveConfig {
	cfg := &saveConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func dropByID(sessions []session.Session, id string) []session.Session {
	out := sessions[:0]
	for _, s := range sessions {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// saveErrorMessage picks a user-facing message for a failed operation:
// server verdicts carry their own message, transport failures get a generic
// one.
func saveErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}
