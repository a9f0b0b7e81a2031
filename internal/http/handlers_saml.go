package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adgate-io/adgate/internal/adapters/samlbridge"
	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	"github.com/adgate-io/adgate/internal/service"
)

// SAMLLoginService issues sessions for users asserted by the identity provider.
type SAMLLoginService interface {
	LoginSAML(ctx context.Context, user domainauth.DirectoryUser, remoteAddr string) (*service.LoginResult, error)
}

// SAMLHandlers provides the identity-provider redirect and callback endpoints.
type SAMLHandlers struct {
	Bridge *samlbridge.Bridge
	Svc    SAMLLoginService
	Cookie CookieConfig
	Logger *slog.Logger
}

func (h *SAMLHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login redirects the browser to the identity provider with a signed-on
// request. The post-login destination rides along as RelayState.
// GET /auth/saml.
func (h *SAMLHandlers) Login(w http.ResponseWriter, r *http.Request) {
	relayState := safeRelayState(r.URL.Query().Get("redirect_uri"))

	target, err := h.Bridge.LoginURL(relayState)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback consumes the identity provider's POST, maps assertion claims to a
// user record, and establishes the session.
// POST /auth/saml/callback.
func (h *SAMLHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return
	}

	user, err := h.Bridge.ParseResponse(r.PostFormValue("SAMLResponse"))
	if err != nil {
		h.logger().WarnContext(r.Context(), "saml assertion rejected", "err", err)
		WriteAppError(w, err)
		return
	}

	result, err := h.Svc.LoginSAML(r.Context(), user, r.RemoteAddr)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	setSessionCookie(w, r, h.Cookie, result.Token, time.Until(result.Session.ExpiresAt))
	http.Redirect(w, r, safeRelayState(r.PostFormValue("RelayState")), http.StatusFound)
}

// safeRelayState allows only relative paths so the callback can never be
// turned into an open redirect.
func safeRelayState(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return raw
}
