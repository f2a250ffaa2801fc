package auth

import (
	"context"
	"log/slog"
	"net/http"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

type contextKey string

const authContextKey contextKey = "authgate_auth"

func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// FromContext returns the AuthContext attached by the resolver. A request
// that never went through the resolver reads as anonymous.
func FromContext(ctx context.Context) AuthContext {
	ac, _ := ctx.Value(authContextKey).(AuthContext)
	return ac
}

// SessionResolver annotates each request with an AuthContext derived from
// the token cookie. It never rejects a request; protected handlers decide
// what to do with anonymous callers.
type SessionResolver struct {
	codec  *TokenCodec
	store  Store
	logger *slog.Logger
}

func NewSessionResolver(codec *TokenCodec, store Store, logger *slog.Logger) *SessionResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionResolver{codec: codec, store: store, logger: logger}
}

// Resolve derives the AuthContext for r.
func (sr *SessionResolver) Resolve(r *http.Request) AuthContext {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return AuthContext{}
	}
	claims, err := sr.codec.Verify(c.Value)
	if err != nil {
		sr.logger.DebugContext(r.Context(), "session token ignored", "err", err)
		return AuthContext{}
	}
	ok, err := sr.store.Exists(r.Context(), claims.Username)
	if err != nil {
		sr.logger.WarnContext(r.Context(), "session user lookup", "username", claims.Username, "err", err)
		return AuthContext{}
	}
	if !ok {
		sr.logger.DebugContext(r.Context(), "session token ignored", "err", ErrUnknownUser, "username", claims.Username)
		return AuthContext{}
	}
	return AuthContext{IsAuthenticated: true, Username: claims.Username}
}

func (sr *SessionResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithAuthContext(r.Context(), sr.Resolve(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth answers 401 for anonymous requests and otherwise calls next.
// It is meant to be applied per endpoint, after the resolver.
func RequireAuth(next http.HandlerFunc, unauthorized http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).IsAuthenticated {
			unauthorized(w, r)
			return
		}
		next(w, r)
	}
}
