// Package auth handles password login, signed session cookies and role based
// access to the protected resource.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Service struct {
	store  Store
	hasher *Hasher
	codec  *TokenCodec
	policy Policy
	logger *slog.Logger
	locks  *keyLock
}

func NewService(store Store, hasher *Hasher, codec *TokenCodec, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		hasher: hasher,
		codec:  codec,
		policy: DefaultPolicy(),
		logger: logger,
		locks:  newKeyLock(),
	}
}

func (s *Service) Store() Store {
	return s.store
}

func (s *Service) Codec() *TokenCodec {
	return s.codec
}

// Session is a freshly issued token and the claims it carries.
type Session struct {
	Token  string
	Claims SessionClaims
}

// Login authenticates username with password and issues a session token.
//
// An unknown or unclaimed username is registered with the supplied password,
// so the first login for a name doubles as its signup. Attempts for the same
// username are serialized so two first logins cannot both register.
func (s *Service) Login(ctx context.Context, username, password string) (*User, *Session, error) {
	if username == "" || password == "" {
		return nil, nil, ErrMissingCredentials
	}

	unlock := s.locks.Lock(username)
	defer unlock()

	user, err := s.store.Get(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound) || (err == nil && !user.Claimed()):
		hash, err := s.hasher.Hash(ctx, password)
		if err != nil {
			return nil, nil, fmt.Errorf("hash password: %w", err)
		}
		if user, err = s.store.Upsert(ctx, username, hash); err != nil {
			return nil, nil, fmt.Errorf("store user: %w", err)
		}
		s.logger.InfoContext(ctx, "user added/updated", "username", username, "role", user.Role)
	case err != nil:
		return nil, nil, fmt.Errorf("load user: %w", err)
	default:
		ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
		if err != nil {
			return nil, nil, fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			s.logger.InfoContext(ctx, "login rejected", "username", username)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.InfoContext(ctx, "user authenticated", "username", username)
	}

	token, claims, err := s.codec.Issue(user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}
	return user, &Session{Token: token, Claims: claims}, nil
}

// Secret returns the protected payload for an authenticated request. It
// fails with ErrUnknownUser when the context is anonymous or the user is gone.
func (s *Service) Secret(ctx context.Context, ac AuthContext) (SecretPayload, error) {
	if !ac.IsAuthenticated {
		return SecretPayload{}, ErrUnknownUser
	}
	user, err := s.store.Get(ctx, ac.Username)
	if errors.Is(err, ErrUserNotFound) {
		return SecretPayload{}, ErrUnknownUser
	}
	if err != nil {
		return SecretPayload{}, fmt.Errorf("load user: %w", err)
	}
	return s.policy.Resolve(user), nil
}

// SetPassword hashes password and stores it for username, keeping its role.
func (s *Service) SetPassword(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	unlock := s.locks.Lock(username)
	defer unlock()

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.store.Upsert(ctx, username, hash)
}
