package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adgate-io/adgate/internal/domain/nettrust"
	apperrors "github.com/adgate-io/adgate/internal/errors"
	"github.com/adgate-io/adgate/internal/ports"
)

// fallbackLoginURL is where failed silent negotiation sends browsers when
// form fallback is enabled.
const fallbackLoginURL = "/auth/login?reason=windows_auth_failed"

// WindowsAuthHandlers provides HTTP handlers for integrated Windows authentication.
type WindowsAuthHandlers struct {
	Negotiator     ports.Negotiator
	Trust          *nettrust.Checker
	FallbackToForm bool
	Cookie         CookieConfig
	Logger         *slog.Logger
}

func (h *WindowsAuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// WindowsAuth drives one negotiation round trip: challenge, token exchange,
// or fallback redirect.
// GET /api/auth/windows-auth.
func (h *WindowsAuthHandlers) WindowsAuth(w http.ResponseWriter, r *http.Request) {
	result, err := h.Negotiator.Negotiate(r.Context(), ports.NegotiateInput{
		RemoteAddr:    r.RemoteAddr,
		UserAgent:     r.UserAgent(),
		Authorization: r.Header.Get("Authorization"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if len(result.Challenge) > 0 {
		for _, scheme := range result.Challenge {
			w.Header().Add("WWW-Authenticate", scheme)
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "negotiation_required",
			Err:     errors.New("windows authentication required"),
		})
		return
	}

	setSessionCookie(w, r, h.Cookie, result.Token, time.Until(result.Session.ExpiresAt))
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  result.Session,
		"token": result.Token,
	})
}

// fail applies the fallback decision: untrusted networks always get a hard
// error, everything else may redirect to the login form.
func (h *WindowsAuthHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	h.logger().WarnContext(r.Context(), "windows auth failed",
		"reason", string(code),
		"remote_addr", r.RemoteAddr,
	)

	if apperrors.IsForbiddenNetwork(err) {
		WriteAppError(w, err)
		return
	}
	if h.FallbackToForm && r.URL.Query().Get("no_fallback") == "" {
		http.Redirect(w, r, fallbackLoginURL, http.StatusFound)
		return
	}
	WriteAppError(w, err)
}

// AutoDetect advises the client which login method to try first based on
// network trust alone.
// GET /api/auth/auto-detect.
func (h *WindowsAuthHandlers) AutoDetect(w http.ResponseWriter, r *http.Request) {
	method := "external"
	if h.Trust != nil && h.Trust.Trusted(r.RemoteAddr) {
		method = "windows"
	}
	WriteJSON(w, http.StatusOK, map[string]string{"method": method})
}
