package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/wellspace/client"
	"github.com/dmitrymomot/wellspace/handler"
	"github.com/dmitrymomot/wellspace/modules/session"
)

// recorder collects surfaced notifications.
type recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

func (r *recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

type userKey struct{}

// testServer runs the real session router over a memory store, with every
// request authenticated as "owner". middleware lets tests intercept
// requests (count them, slow them down).
func testServer(t *testing.T, middleware func(http.Handler) http.Handler) (*httptest.Server, *session.Service) {
	t.Helper()

	svc := session.NewService(session.NewMemoryStore())

	authenticate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), userKey{}, "owner")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	userID := func(ctx handler.Context) (string, bool) {
		uid, ok := ctx.Value(userKey{}).(string)
		return uid, ok
	}

	r := chi.NewRouter()
	if middleware != nil {
		r.Use(middleware)
	}
	r.Mount("/api/sessions", session.Router(svc, authenticate, userID))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func newState(t *testing.T, middleware func(http.Handler) http.Handler) (*client.State, *recorder, *session.Service) {
	t.Helper()
	srv, svc := testServer(t, middleware)
	rec := &recorder{}
	state := client.NewState(client.NewClient(srv.URL), client.WithNotifier(rec))
	return state, rec, svc
}

func validForm(title string) client.DraftForm {
	return client.DraftForm{
		Title:   title,
		Tags:    []string{"calm"},
		DataURL: "https://cdn.example.com/flow.json",
	}
}
