package session_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wellspace/modules/session"
	"github.com/dmitrymomot/wellspace/pkg/validator"
)

// testClock hands out strictly increasing timestamps so ordering assertions
// are deterministic.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(t *testing.T) (*session.Service, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	clock := &testClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	svc := session.NewService(store, session.WithClock(clock.Now))
	return svc, store
}

func draft(title string) session.DraftInput {
	return session.DraftInput{
		Title:   title,
		Tags:    []string{"breathing", "calm"},
		DataURL: "https://cdn.example.com/sessions/flow.json",
	}
}

func TestSaveDraft_Create(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	saved, created, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "user-1", saved.OwnerID)
	assert.Equal(t, session.StatusDraft, saved.Status)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
}

func TestSaveDraft_Update(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
	require.NoError(t, err)

	in := draft("Evening Flow")
	in.SessionID = saved.ID
	updated, created, err := svc.SaveDraft(context.Background(), "user-1", in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "Evening Flow", updated.Title)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(saved.UpdatedAt))
}

func TestSaveDraft_PreservesPublishedStatus(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), "user-1", saved.ID)
	require.NoError(t, err)

	in := draft("Morning Flow v2")
	in.SessionID = saved.ID
	updated, _, err := svc.SaveDraft(context.Background(), "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, session.StatusPublished, updated.Status)
	assert.Equal(t, "Morning Flow v2", updated.Title)
}

func TestSaveDraft_OwnershipGate(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
	require.NoError(t, err)

	in := draft("Hijacked")
	in.SessionID = saved.ID
	_, _, err = svc.SaveDraft(context.Background(), "user-2", in)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Unchanged for the owner.
	got, err := svc.GetOwn(context.Background(), "user-1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Flow", got.Title)
}

func TestSaveDraft_TagNormalization(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	in := draft("Morning Flow")
	in.Tags = []string{" calm ", "", "focus", "   ", "calm"}
	saved, _, err := svc.SaveDraft(context.Background(), "user-1", in)
	require.NoError(t, err)
	// Trimmed, empties dropped, duplicates and order preserved.
	assert.Equal(t, []string{"calm", "focus", "calm"}, saved.Tags)
}

func TestSaveDraft_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	tests := []struct {
		name   string
		in     session.DraftInput
		fields []string
	}{
		{
			name:   "empty title and url",
			in:     session.DraftInput{},
			fields: []string{"title", "json_file_url"},
		},
		{
			name: "title too long",
			in: session.DraftInput{
				Title:   fmt.Sprintf("%0101d", 0),
				DataURL: "https://cdn.example.com/flow.json",
			},
			fields: []string{"title"},
		},
		{
			name: "tag too long",
			in: session.DraftInput{
				Title:   "Morning Flow",
				Tags:    []string{"this tag is way way way longer than thirty characters"},
				DataURL: "https://cdn.example.com/flow.json",
			},
			fields: []string{"tags"},
		},
		{
			name: "bad url",
			in: session.DraftInput{
				Title:   "Morning Flow",
				DataURL: "not a url",
			},
			fields: []string{"json_file_url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := svc.SaveDraft(context.Background(), "user-1", tt.in)
			verr := validator.ExtractValidationErrors(err)
			require.NotNil(t, verr, "expected validation errors")
			for _, f := range tt.fields {
				assert.True(t, verr.Has(f), "expected violation on %q", f)
			}
		})
	}
}

func TestSaveDraft_URLSchemeOptional(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	in := draft("Morning Flow")
	in.DataURL = "cdn.example.com/sessions/flow.json"
	_, _, err := svc.SaveDraft(context.Background(), "user-1", in)
	assert.NoError(t, err)
}

func TestPublish(t *testing.T) {
	t.Parallel()

	t.Run("draft to published", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
		require.NoError(t, err)

		published, err := svc.Publish(context.Background(), "user-1", saved.ID)
		require.NoError(t, err)
		assert.Equal(t, session.StatusPublished, published.Status)
		assert.True(t, published.UpdatedAt.After(saved.UpdatedAt))
	})

	t.Run("idempotent but refreshes updatedAt", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
		require.NoError(t, err)

		first, err := svc.Publish(context.Background(), "user-1", saved.ID)
		require.NoError(t, err)
		second, err := svc.Publish(context.Background(), "user-1", saved.ID)
		require.NoError(t, err)

		assert.Equal(t, session.StatusPublished, second.Status)
		assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	})

	t.Run("missing id is a validation error", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		_, err := svc.Publish(context.Background(), "user-1", "")
		verr := validator.ExtractValidationErrors(err)
		require.NotNil(t, verr)
		assert.True(t, verr.Has("sessionId"))
	})

	t.Run("not owned", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
		require.NoError(t, err)

		_, err = svc.Publish(context.Background(), "user-2", saved.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestListPublished(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	for i := range 3 {
		saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft(fmt.Sprintf("Flow %d", i)))
		require.NoError(t, err)
		if i != 1 { // leave one as draft
			_, err = svc.Publish(context.Background(), "user-1", saved.ID)
			require.NoError(t, err)
		}
	}

	listed, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, s := range listed {
		assert.Equal(t, session.StatusPublished, s.Status)
	}
	// Newest created first.
	assert.Equal(t, "Flow 2", listed[0].Title)
	assert.Equal(t, "Flow 0", listed[1].Title)
}

func TestListPublished_Cap(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	for i := range session.PublishedListingCap + 5 {
		saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft(fmt.Sprintf("Flow %d", i)))
		require.NoError(t, err)
		_, err = svc.Publish(context.Background(), "user-1", saved.ID)
		require.NoError(t, err)
	}

	listed, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, session.PublishedListingCap)
}

func TestListOwn(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	first, _, err := svc.SaveDraft(context.Background(), "user-1", draft("First"))
	require.NoError(t, err)
	_, _, err = svc.SaveDraft(context.Background(), "user-1", draft("Second"))
	require.NoError(t, err)
	_, _, err = svc.SaveDraft(context.Background(), "user-2", draft("Other"))
	require.NoError(t, err)

	// Editing the oldest bumps it to the front.
	in := draft("First, revised")
	in.SessionID = first.ID
	_, _, err = svc.SaveDraft(context.Background(), "user-1", in)
	require.NoError(t, err)

	listed, err := svc.ListOwn(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "First, revised", listed[0].Title)
	assert.Equal(t, "Second", listed[1].Title)
}

func TestGetOwn(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
	require.NoError(t, err)

	t.Run("owner sees drafts", func(t *testing.T) {
		got, err := svc.GetOwn(context.Background(), "user-1", saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, got.ID)
	})

	t.Run("not owned looks missing", func(t *testing.T) {
		_, err := svc.GetOwn(context.Background(), "user-2", saved.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetOwn(context.Background(), "user-1", "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestDeleteOwn(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	saved, _, err := svc.SaveDraft(context.Background(), "user-1", draft("Morning Flow"))
	require.NoError(t, err)

	t.Run("not owned", func(t *testing.T) {
		err := svc.DeleteOwn(context.Background(), "user-2", saved.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("owner deletes, then gone", func(t *testing.T) {
		require.NoError(t, svc.DeleteOwn(context.Background(), "user-1", saved.ID))

		_, err := svc.GetOwn(context.Background(), "user-1", saved.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)

		err = svc.DeleteOwn(context.Background(), "user-1", saved.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestLifecycle_EndToEnd(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.SaveDraft(ctx, "user-1", draft("Morning Flow"))
	require.NoError(t, err)

	in := draft("Morning Flow, extended")
	in.SessionID = created.ID
	edited, _, err := svc.SaveDraft(ctx, "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, session.StatusDraft, edited.Status)

	published, err := svc.Publish(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusPublished, published.Status)

	in.Title = "Morning Flow, final"
	final, _, err := svc.SaveDraft(ctx, "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, session.StatusPublished, final.Status)
	assert.Equal(t, "Morning Flow, final", final.Title)

	listed, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Morning Flow, final", listed[0].Title)
}
