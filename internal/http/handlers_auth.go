package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	"github.com/adgate-io/adgate/internal/ports"
	"github.com/adgate-io/adgate/internal/service"
)

// AuthServiceInterface defines the auth service operations handlers depend on.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds domainauth.Credentials, remoteAddr string) (*service.LoginResult, error)
	Refresh(ctx context.Context, token, remoteAddr string) (*service.LoginResult, error)
	Verify(token string) (domainauth.Session, error)
}

// AuthHandlers provides HTTP handlers for session lifecycle operations.
type AuthHandlers struct {
	Svc       AuthServiceInterface
	Directory ports.Directory
	Cookie    CookieConfig
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login authenticates form credentials and sets the session cookie.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds domainauth.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}

	result, err := h.Svc.Login(r.Context(), creds, r.RemoteAddr)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	setSessionCookie(w, r, h.Cookie, result.Token, time.Until(result.Session.ExpiresAt))
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  result.Session,
		"token": result.Token,
	})
}

// Logout clears the session cookie. The server keeps no revocation list, so
// tokens already handed out stay valid until expiry.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, r, h.Cookie)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the verified session and, when the directory is reachable, a
// freshly resolved profile.
// GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r, h.Cookie.Name)
	if token == "" {
		writeUnauthorized(w)
		return
	}

	session, err := h.Svc.Verify(token)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	body := map[string]any{"user": session}
	if h.Directory != nil {
		if profile, lookupErr := h.Directory.Lookup(r.Context(), session.Username); lookupErr == nil {
			body["profile"] = profile
		} else {
			h.logger().WarnContext(r.Context(), "profile refresh failed",
				"username", session.Username, "err", lookupErr)
		}
	}
	WriteJSON(w, http.StatusOK, body)
}

// Refresh exchanges the current token for a fresh one. Any failure clears
// the cookie so the client falls back to an interactive login.
// POST /api/auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r, h.Cookie.Name)
	if token == "" {
		writeUnauthorized(w)
		return
	}

	result, err := h.Svc.Refresh(r.Context(), token, r.RemoteAddr)
	if err != nil {
		clearSessionCookie(w, r, h.Cookie)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "unauthorized",
			Err:     errors.New("session could not be refreshed"),
		})
		return
	}

	setSessionCookie(w, r, h.Cookie, result.Token, time.Until(result.Session.ExpiresAt))
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  result.Session,
		"token": result.Token,
	})
}
