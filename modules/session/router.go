package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/wellspace/handler"
	"github.com/dmitrymomot/wellspace/pkg/binder"
	"github.com/dmitrymomot/wellspace/pkg/validator"
)

// SaveDraftRequest is the POST /my-sessions/save-draft body. SessionID is
// empty on first save.
type SaveDraftRequest struct {
	SessionID string   `json:"sessionId"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	DataURL   string   `json:"json_file_url"`
}

// PublishRequest is the POST /my-sessions/publish body.
type PublishRequest struct {
	SessionID string `json:"sessionId"`
}

// SessionIDPath binds the {id} path parameter.
type SessionIDPath struct {
	ID string `path:"id"`
}

// Router builds the session API. The public listing is open; everything
// under /my-sessions requires the authenticate middleware to have resolved
// a user, via userID.
func Router(svc *Service, authenticate func(http.Handler) http.Handler, userID func(ctx handler.Context) (string, bool)) chi.Router {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(
		handler.HandlerFunc[struct{}](func(ctx handler.Context, _ struct{}) handler.Response {
			sessions, err := svc.ListPublished(ctx)
			if err != nil {
				return handler.JSONError(err, handler.WithMessage("Server error while fetching sessions"))
			}
			return handler.JSON(sessions, handler.WithCount(len(sessions)))
		}),
	))

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		owner := func(ctx handler.Context) (string, handler.Response) {
			id, ok := userID(ctx)
			if !ok {
				return "", handler.JSONError(handler.NewHTTPError(http.StatusUnauthorized, "Unauthorized"))
			}
			return id, nil
		}

		r.Get("/my-sessions", handler.Wrap(
			handler.HandlerFunc[struct{}](func(ctx handler.Context, _ struct{}) handler.Response {
				uid, errResp := owner(ctx)
				if errResp != nil {
					return errResp
				}
				sessions, err := svc.ListOwn(ctx, uid)
				if err != nil {
					return handler.JSONError(err, handler.WithMessage("Server error while fetching your sessions"))
				}
				return handler.JSON(sessions, handler.WithCount(len(sessions)))
			}),
		))

		r.Get("/my-sessions/{id}", handler.Wrap(
			handler.HandlerFunc[SessionIDPath](func(ctx handler.Context, req SessionIDPath) handler.Response {
				uid, errResp := owner(ctx)
				if errResp != nil {
					return errResp
				}
				found, err := svc.GetOwn(ctx, uid, req.ID)
				if err != nil {
					return sessionError(err, "Server error while fetching session")
				}
				return handler.JSON(found)
			}),
			handler.WithBinders[SessionIDPath](binder.Path(chi.URLParam)),
		))

		r.Post("/my-sessions/save-draft", handler.Wrap(
			handler.HandlerFunc[SaveDraftRequest](func(ctx handler.Context, req SaveDraftRequest) handler.Response {
				uid, errResp := owner(ctx)
				if errResp != nil {
					return errResp
				}
				saved, created, err := svc.SaveDraft(ctx, uid, DraftInput{
					SessionID: req.SessionID,
					Title:     req.Title,
					Tags:      req.Tags,
					DataURL:   req.DataURL,
				})
				if err != nil {
					return sessionError(err, "Server error while saving draft")
				}
				msg := "Draft updated successfully"
				if created {
					msg = "Draft saved successfully"
				}
				return handler.JSON(saved, handler.WithMessage(msg))
			}),
			handler.WithBinders[SaveDraftRequest](binder.JSON()),
		))

		r.Post("/my-sessions/publish", handler.Wrap(
			handler.HandlerFunc[PublishRequest](func(ctx handler.Context, req PublishRequest) handler.Response {
				uid, errResp := owner(ctx)
				if errResp != nil {
					return errResp
				}
				published, err := svc.Publish(ctx, uid, req.SessionID)
				if err != nil {
					return sessionError(err, "Server error while publishing session")
				}
				return handler.JSON(published, handler.WithMessage("Session published successfully"))
			}),
			handler.WithBinders[PublishRequest](binder.JSON()),
		))

		r.Delete("/my-sessions/{id}", handler.Wrap(
			handler.HandlerFunc[SessionIDPath](func(ctx handler.Context, req SessionIDPath) handler.Response {
				uid, errResp := owner(ctx)
				if errResp != nil {
					return errResp
				}
				if err := svc.DeleteOwn(ctx, uid, req.ID); err != nil {
					return sessionError(err, "Server error while deleting session")
				}
				return handler.JSON(nil, handler.WithMessage("Session deleted successfully"))
			}),
			handler.WithBinders[SessionIDPath](binder.Path(chi.URLParam)),
		))
	})

	return r
}

// sessionError maps service failures to the envelope: not-found and
// validation keep their specific shapes, anything else becomes a 500 with
// the operation's generic message.
func sessionError(err error, serverMsg string) handler.Response {
	if errors.Is(err, ErrNotFound) {
		return handler.JSONError(handler.NewHTTPError(http.StatusNotFound, "Session not found"))
	}
	if validator.IsValidationError(err) {
		return handler.JSONError(err)
	}
	return handler.JSONError(err, handler.WithMessage(serverMsg))
}
