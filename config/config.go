package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - directory.go: LDAP directory configuration
//   - token.go: Session token signing configuration
//   - winauth.go: Windows integrated auth configuration
//   - saml.go: SAML bridge configuration
//   - database.go: Audit database configuration
//   - http.go: HTTP server and route classification configuration
type AppConfig struct {
	// IsDev controls development mode behavior (relaxed cookie security, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Directory configuration
	Directory DirectoryConfig `envPrefix:"DIRECTORY_"`

	// Session token configuration
	Token TokenConfig `envPrefix:"TOKEN_"`

	// Windows integrated authentication configuration
	WindowsAuth WindowsAuthConfig `envPrefix:"WINDOWS_AUTH_"`

	// SAML bridge configuration
	SAML SAMLConfig `envPrefix:"SAML_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Audit database configuration
	Postgres DBConfig `envPrefix:"DB_"`

	// AuditEnabled controls whether authentication events are recorded
	// to the database. When disabled no database connection is made.
	AuditEnabled bool `env:"AUDIT_ENABLED" envDefault:"false"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Directory.Sanitize()
	c.Token.Sanitize()
	c.WindowsAuth.Sanitize()
	c.HTTP.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
