package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", time.Hour)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, NewHasher(bcrypt.MinCost, 4), codec, logger)
}

func TestLogin_NewUserIsRegistered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	svc := newTestService(t, store)

	user, session, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, RoleDefault, user.Role)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	stored, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, RoleDefault, stored.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")))

	claims, err := svc.Codec().Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	_, _, err = svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err, "repeat login with the same password must succeed")
}

func TestLogin_WrongPasswordLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	svc := newTestService(t, store)

	_, _, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	before, err := store.Get(ctx, "alice")
	require.NoError(t, err)

	user, session, err := svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Nil(t, session)

	after, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLogin_MissingCredentials(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	svc := newTestService(t, store)
	for _, tc := range []struct{ user, pass string }{
		{"", "pw"},
		{"alice", ""},
		{"", ""},
	} {
		_, _, err := svc.Login(context.Background(), tc.user, tc.pass)
		assert.ErrorIs(t, err, ErrMissingCredentials, "%q/%q", tc.user, tc.pass)
	}
	ok, err := store.Exists(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_ClaimsReservedRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.SetRole(ctx, "admin", RoleAdmin)
	require.NoError(t, err)
	svc := newTestService(t, store)

	user, _, err := svc.Login(ctx, "admin", "first-password")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role, "role must survive the first login")

	_, _, err = svc.Login(ctx, "admin", "second-password")
	require.ErrorIs(t, err, ErrInvalidCredentials, "once claimed the password is fixed")
}

func TestLogin_ConcurrentFirstLogins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	svc := newTestService(t, store)

	const n = 8
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			password := "pw-a"
			if i%2 == 1 {
				password = "pw-b"
			}
			_, _, results[i] = svc.Login(ctx, "carol", password)
		}()
	}
	wg.Wait()

	stored, err := store.Get(ctx, "carol")
	require.NoError(t, err)
	winner := "pw-a"
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(winner)) != nil {
		winner = "pw-b"
	}

	for i, err := range results {
		password := "pw-a"
		if i%2 == 1 {
			password = "pw-b"
		}
		if password == winner {
			assert.NoError(t, err, "login %d with the winning password", i)
		} else {
			assert.ErrorIs(t, err, ErrInvalidCredentials, "login %d with the losing password", i)
		}
	}
}

type brokenStore struct{ Store }

func (brokenStore) Get(context.Context, string) (*User, error) {
	return nil, errors.New("connection refused")
}

func TestLogin_StoreFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, brokenStore{})
	_, _, err := svc.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSecret(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	svc := newTestService(t, store)
	_, err := store.SetRole(ctx, "root", RoleAdmin)
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "root", "pw")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	p, err := svc.Secret(ctx, AuthContext{IsAuthenticated: true, Username: "root"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy().Admin, p)

	p, err = svc.Secret(ctx, AuthContext{IsAuthenticated: true, Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy().Default, p)

	_, err = svc.Secret(ctx, AuthContext{})
	require.ErrorIs(t, err, ErrUnknownUser)

	_, err = svc.Secret(ctx, AuthContext{IsAuthenticated: true, Username: "ghost"})
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestSetPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	svc := newTestService(t, store)

	_, err := store.SetRole(ctx, "root", RoleAdmin)
	require.NoError(t, err)
	u, err := svc.SetPassword(ctx, "root", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.True(t, u.Claimed())

	_, _, err = svc.Login(ctx, "root", "s3cret")
	require.NoError(t, err)

	_, err = svc.SetPassword(ctx, "root", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
}
