package auth

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// Hasher runs bcrypt hashing and verification on a bounded pool of
// goroutines. Callers block only on their own result and may give up early
// by cancelling ctx.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher returns a Hasher with the given bcrypt cost. workers limits how
// many bcrypt computations run at once; zero or less means GOMAXPROCS.
func NewHasher(cost, workers int) *Hasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
}

type hashResult struct {
	hash []byte
	err  error
}

func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	res, err := h.run(ctx, func() hashResult {
		b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return hashResult{hash: b, err: err}
	})
	if err != nil {
		return "", err
	}
	if res.err != nil {
		return "", res.err
	}
	return string(res.hash), nil
}

// Verify reports whether hash was derived from password. A malformed hash
// verifies as false. The error is non-nil only when ctx ends first.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	res, err := h.run(ctx, func() hashResult {
		return hashResult{err: bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))}
	})
	if err != nil {
		return false, err
	}
	return res.err == nil, nil
}

func (h *Hasher) run(ctx context.Context, fn func() hashResult) (hashResult, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return hashResult{}, err
	}
	done := make(chan hashResult, 1)
	go func() {
		defer h.sem.Release(1)
		done <- fn()
	}()
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	}
}
