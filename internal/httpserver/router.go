package httpserver

import (
	"log/slog"
	"net/http"

	"authgate/internal/auth"
)

type RouterConfig struct {
	CookieSecure   bool
	StaticDir      string
	AllowedOrigins []string
}

func NewRouter(logger *slog.Logger, authSvc *auth.Service, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	h := &handlers{
		svc:          authSvc,
		logger:       logger,
		cookieSecure: cfg.CookieSecure,
	}

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("GET /api/logout", h.logout)
	mux.HandleFunc("GET /api/auth/status", h.status)

	// Protected
	mux.HandleFunc("GET /api/secret", auth.RequireAuth(h.secret, h.unauthorized))

	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	resolver := auth.NewSessionResolver(authSvc.Codec(), authSvc.Store(), logger)
	return withCORS(resolver.Middleware(mux), cfg.AllowedOrigins)
}
