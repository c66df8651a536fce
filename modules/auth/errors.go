package auth

import "errors"

var (
	// ErrEmailTaken indicates a registration attempt with an email that
	// already has an account.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses never disclose which one failed.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUserNotFound indicates the user behind a token no longer exists.
	ErrUserNotFound = errors.New("auth: user not found")
)
