package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://sso.example.com").
	// Used for generating absolute URLs in redirects and SAML metadata.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// ProtectedPrefixes are path prefixes that require a valid session.
	ProtectedPrefixes []string `env:"APP_PROTECTED_PREFIXES" envSeparator:";"`

	// PublicPrefixes are path prefixes exempt from session checks.
	// Public classification wins over protected on overlap.
	PublicPrefixes []string `env:"APP_PUBLIC_PREFIXES" envSeparator:";"`
}

// Default route classification mirrors the broker's own surface.
var (
	DefaultProtectedPrefixes = []string{"/api/protected", "/dashboard", "/admin"}
	DefaultPublicPrefixes    = []string{"/api/auth", "/auth", "/login", "/public", "/healthz"}
)

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if len(h.ProtectedPrefixes) == 0 {
		h.ProtectedPrefixes = append([]string(nil), DefaultProtectedPrefixes...)
	}
	if len(h.PublicPrefixes) == 0 {
		h.PublicPrefixes = append([]string(nil), DefaultPublicPrefixes...)
	}
}
