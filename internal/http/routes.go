package httpx

import (
	"log/slog"
	"net/http"

	"github.com/adgate-io/adgate/config"
	"github.com/adgate-io/adgate/internal/adapters/samlbridge"
	"github.com/adgate-io/adgate/internal/domain/nettrust"
	"github.com/adgate-io/adgate/internal/ports"
	"github.com/adgate-io/adgate/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      *service.AuthService
	Directory ports.Directory
	Windows   ports.Negotiator
	Trust     *nettrust.Checker
	SAML      *samlbridge.Bridge
	// Events is optional; the audit endpoint is registered only when set.
	Events AuthEventsLister

	HTTP        config.HTTPConfig
	Token       config.TokenConfig
	WindowsAuth config.WindowsAuthConfig
	Logger      *slog.Logger
}

// NewRouter creates and configures the HTTP router with the request gate,
// request logging, and panic recovery applied.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cookie := CookieConfig{
		Name:   services.Token.CookieName,
		Domain: services.HTTP.CookieDomain,
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:       services.Auth,
		Directory: services.Directory,
		Cookie:    cookie,
		Logger:    logger,
	}
	mux.HandleFunc("POST /api/auth/login", authHandlers.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/auth/me", authHandlers.Me)
	mux.HandleFunc("POST /api/auth/refresh", authHandlers.Refresh)

	if services.Windows != nil {
		trust := services.Trust
		if trust == nil {
			trust = nettrust.New(services.WindowsAuth.TrustedNetworks)
		}
		winHandlers := &WindowsAuthHandlers{
			Negotiator:     services.Windows,
			Trust:          trust,
			FallbackToForm: services.WindowsAuth.FallbackToForm,
			Cookie:         cookie,
			Logger:         logger,
		}
		mux.HandleFunc("GET /api/auth/windows-auth", winHandlers.WindowsAuth)
		mux.HandleFunc("GET /api/auth/auto-detect", winHandlers.AutoDetect)
	}

	if services.SAML != nil {
		samlHandlers := &SAMLHandlers{
			Bridge: services.SAML,
			Svc:    services.Auth,
			Cookie: cookie,
			Logger: logger,
		}
		mux.HandleFunc("GET /auth/saml", samlHandlers.Login)
		mux.HandleFunc("POST /auth/saml/callback", samlHandlers.Callback)
	}

	if services.Events != nil {
		eventHandlers := &AuthEventHandlers{Repo: services.Events}
		mux.HandleFunc("GET /api/protected/auth-events", eventHandlers.List)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	gate := RequestGate(GateConfig{
		ProtectedPrefixes: services.HTTP.ProtectedPrefixes,
		PublicPrefixes:    services.HTTP.PublicPrefixes,
		CookieName:        services.Token.CookieName,
	}, services.Auth, logger)

	return Logging(logger)(Recover(logger)(gate(mux)))
}
