package config

import "time"

// TokenConfig contains session token signing and cookie configuration.
type TokenConfig struct {
	// SigningSecret is the HMAC secret used to sign session tokens.
	// Required for production; a weak default is rejected by Sanitize.
	SigningSecret string `env:"SIGNING_SECRET" envDefault:"dev-signing-secret"`

	// Issuer is the iss claim stamped into every issued token.
	Issuer string `env:"ISSUER" envDefault:"adgate"`

	// Audience is the aud claim stamped into every issued token.
	Audience string `env:"AUDIENCE" envDefault:"adgate-clients"`

	// TTL is the lifetime of tokens issued through form login.
	TTL time.Duration `env:"TTL" envDefault:"24h"`

	// WindowsTTL is the shorter lifetime of tokens issued through
	// Windows integrated authentication.
	WindowsTTL time.Duration `env:"WINDOWS_TTL" envDefault:"8h"`

	// CookieName is the cookie the session token travels in.
	CookieName string `env:"COOKIE_NAME" envDefault:"auth-token"`
}

// Sanitize applies guardrails to token configuration values.
func (c *TokenConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.WindowsTTL <= 0 {
		c.WindowsTTL = 8 * time.Hour
	}
	if c.CookieName == "" {
		c.CookieName = "auth-token"
	}
}
