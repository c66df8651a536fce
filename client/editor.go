package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/wellspace/modules/session"
)

// DefaultDebounce is the inactivity window before an edit auto-saves.
const DefaultDebounce = 5 * time.Second

// Editor models one open session-editing form: three fields, a debounced
// auto-save, and a manual save that always wins over the timer. The guard
// invariant: while a save is in flight, no timer is armed and no auto-save
// fires, so at most one write per editor is ever outstanding.
type Editor struct {
	mu    sync.Mutex
	state *State

	sessionID string
	title     string
	tags      string // comma-separated, as typed
	dataURL   string

	timer    *time.Timer
	debounce time.Duration
	saving   bool
	saveDone chan struct{} // non-nil while a save is in flight; closed by finishSave
	closed   bool
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithDebounce overrides the auto-save inactivity window, used by tests.
func WithDebounce(d time.Duration) EditorOption {
	return func(e *Editor) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithSession opens the editor on an existing session.
func WithSession(s session.Session) EditorOption {
	return func(e *Editor) {
		e.sessionID = s.ID
		e.title = s.Title
		e.tags = strings.Join(s.Tags, ", ")
		e.dataURL = s.DataURL
	}
}

// NewEditor creates an editor bound to the state. Without WithSession it
// starts a new draft.
func NewEditor(state *State, opts ...EditorOption) *Editor {
	e := &Editor{
		state:    state,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionID returns the id of the session being edited, empty until the
// first successful save of a new draft.
func (e *Editor) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// SetTitle records a title edit and re-arms the auto-save timer.
func (e *Editor) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = title
	e.armTimerLocked()
}

// SetTags records a tags edit (comma-separated) and re-arms the timer.
func (e *Editor) SetTags(tags string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tags = tags
	e.armTimerLocked()
}

// SetDataURL records a data-URL edit and re-arms the timer.
func (e *Editor) SetDataURL(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dataURL = url
	e.armTimerLocked()
}

// Save performs a manual save: any pending auto-save timer is cancelled
// first, and if an auto-save request is already in flight, Save waits for
// its response before issuing its own, so the editor never has two writes
// outstanding.
func (e *Editor) Save(ctx context.Context) (*session.Session, error) {
	e.mu.Lock()
	e.stopTimerLocked()
	for {
		if e.closed {
			e.mu.Unlock()
			return nil, context.Canceled
		}
		if !e.saving {
			break
		}
		done := e.saveDone
		e.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		e.mu.Lock()
	}
	// An edit may have re-armed the timer while this save was queued.
	e.stopTimerLocked()
	e.beginSaveLocked()
	form := e.formLocked()
	e.mu.Unlock()

	saved, err := e.state.SaveDraft(ctx, form, WithLiveness(e.alive))
	e.finishSave(saved)
	return saved, err
}

// Publish publishes the session being edited, surfacing the outcome once.
func (e *Editor) Publish(ctx context.Context) (*session.Session, error) {
	id := e.SessionID()
	return e.state.Publish(ctx, id, true)
}

// Close shuts the editor: the pending timer is cancelled and any response
// still in flight is ignored on arrival. In-flight requests are not
// cancelled; the server may still persist them.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.stopTimerLocked()
}

// armTimerLocked (re)starts the inactivity timer. No timer is armed while a
// save is pending or after close; the next edit after the save completes
// arms it again.
func (e *Editor) armTimerLocked() {
	if e.closed || e.saving {
		return
	}
	e.stopTimerLocked()
	e.timer = time.AfterFunc(e.debounce, e.autoSave)
}

func (e *Editor) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Editor) autoSave() {
	e.mu.Lock()
	if e.closed || e.saving {
		e.mu.Unlock()
		return
	}
	e.beginSaveLocked()
	form := e.formLocked()
	e.mu.Unlock()

	saved, err := e.state.AutoSaveDraft(context.Background(), form, WithLiveness(e.alive))
	if err != nil {
		saved = nil
	}
	e.finishSave(saved)
}

// beginSaveLocked takes the in-flight guard. Callers must hold the mutex
// and have verified the guard is free; only one save can hold it at a time.
func (e *Editor) beginSaveLocked() {
	e.saving = true
	e.saveDone = make(chan struct{})
}

// finishSave releases the guard held by the save that just completed,
// waking any manual save queued behind it, and, when the editor is still
// open, captures the server id of a freshly created draft.
func (e *Editor) finishSave(saved *session.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	close(e.saveDone)
	e.saveDone = nil
	if saved != nil && !e.closed && e.sessionID == "" {
		e.sessionID = saved.ID
	}
}

func (e *Editor) alive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed
}

// formLocked snapshots the fields into a save request. Tags are split on
// commas; the server trims and drops empties.
func (e *Editor) formLocked() DraftForm {
	return DraftForm{
		SessionID: e.sessionID,
		Title:     e.title,
		Tags:      splitTags(e.tags),
		DataURL:   e.dataURL,
	}
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
