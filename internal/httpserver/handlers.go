package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"authgate/internal/auth"
)

type handlers struct {
	svc          *auth.Service
	logger       *slog.Logger
	cookieSecure bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type statusResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrMissingCredentials.Error()})
		return
	}
	_, session, err := h.svc.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials), errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "login", "username", req.Username, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.Claims.ExpiresAt.Sub(session.Claims.IssuedAt) / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// logout only clears the cookie. A copy of the token kept elsewhere stays
// valid until it expires.
func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{IsAuthenticated: ac.IsAuthenticated})
}

func (h *handlers) secret(w http.ResponseWriter, r *http.Request) {
	payload, err := h.svc.Secret(r.Context(), auth.FromContext(r.Context()))
	switch {
	case errors.Is(err, auth.ErrUnknownUser):
		h.unauthorized(w, r)
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "load secret", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handlers) unauthorized(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
