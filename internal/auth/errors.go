package auth

import "errors"

var (
	// Login failures.
	ErrMissingCredentials = errors.New("username or password missing")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token failures.
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")

	// ErrUnknownUser means a valid token names a user the store no longer has.
	ErrUnknownUser = errors.New("unknown user")

	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)
