package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	apperrors "github.com/adgate-io/adgate/internal/errors"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// TokenVerifier validates a session token and returns its session.
type TokenVerifier interface {
	Verify(token string) (domainauth.Session, error)
}

// GateConfig describes which request paths require a verified session.
type GateConfig struct {
	ProtectedPrefixes []string
	PublicPrefixes    []string
	CookieName        string
}

// RequestGate returns a middleware enforcing session tokens on protected
// paths. A path matching both a public and a protected prefix is public.
// Verified sessions are attached to the request context; the specific
// verification failure is logged but never sent to the client.
func RequestGate(cfg GateConfig, verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.requiresAuth(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := extractToken(r, cfg.CookieName)
			if token == "" {
				writeUnauthorized(w)
				return
			}

			session, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected session token",
					"path", r.URL.Path,
					"reason", string(apperrors.GetCode(err)),
				)
				writeUnauthorized(w)
				return
			}

			ctx := SetSessionInContext(r.Context(), &session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requiresAuth classifies a path. Public prefixes win over protected ones.
func (cfg GateConfig) requiresAuth(path string) bool {
	for _, p := range cfg.PublicPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	for _, p := range cfg.ProtectedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// extractToken prefers the session cookie and falls back to a bearer header.
func extractToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: string(apperrors.ErrCodeUnauthorized),
		Err:     errors.New("authentication required"),
	})
}
