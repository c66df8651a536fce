package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/wellspace/handler"
	"github.com/dmitrymomot/wellspace/pkg/binder"
)

// RegisterRequest is the POST /register body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the POST /login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Router builds the auth API: register and login are public, me requires a
// bearer token.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", handler.Wrap(
		handler.HandlerFunc[RegisterRequest](func(ctx handler.Context, req RegisterRequest) handler.Response {
			result, err := svc.Register(ctx, RegisterInput{
				Name:     req.Name,
				Email:    req.Email,
				Password: req.Password,
			})
			if err != nil {
				return registerError(err)
			}
			return handler.JSON(result, handler.WithMessage("User registered successfully"))
		}),
		handler.WithBinders[RegisterRequest](binder.JSON()),
	))

	r.Post("/login", handler.Wrap(
		handler.HandlerFunc[LoginRequest](func(ctx handler.Context, req LoginRequest) handler.Response {
			result, err := svc.Login(ctx, req.Email, req.Password)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					return handler.JSONError(handler.NewHTTPError(http.StatusUnauthorized, "Invalid credentials"))
				}
				return handler.JSONError(err)
			}
			return handler.JSON(result, handler.WithMessage("Login successful"))
		}),
		handler.WithBinders[LoginRequest](binder.JSON()),
	))

	r.Group(func(r chi.Router) {
		r.Use(Authenticator(svc))

		r.Get("/me", handler.Wrap(
			handler.HandlerFunc[struct{}](func(ctx handler.Context, _ struct{}) handler.Response {
				userID, ok := UserIDFromContext(ctx)
				if !ok {
					return handler.JSONError(handler.NewHTTPError(http.StatusUnauthorized, "Unauthorized"))
				}
				user, err := svc.Me(ctx, userID)
				if err != nil {
					if errors.Is(err, ErrUserNotFound) {
						return handler.JSONError(handler.NewHTTPError(http.StatusUnauthorized, "Unauthorized"))
					}
					return handler.JSONError(err)
				}
				return handler.JSON(user)
			}),
		))
	})

	return r
}

func registerError(err error) handler.Response {
	if errors.Is(err, ErrEmailTaken) {
		return handler.JSONError(handler.NewHTTPError(http.StatusBadRequest, "Email already registered"))
	}
	return handler.JSONError(err)
}
