package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adgate-io/adgate/config"
)

func testAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		IsDev: true,
		Directory: config.DirectoryConfig{
			URL:    "ldap://localhost:389",
			BaseDN: "DC=example,DC=com",
		},
		Token: config.TokenConfig{
			SigningSecret: "test-secret",
			Issuer:        "adgate",
			Audience:      "adgate-clients",
			TTL:           24 * time.Hour,
			WindowsTTL:    8 * time.Hour,
			CookieName:    "auth-token",
		},
		WindowsAuth: config.WindowsAuthConfig{Enabled: true, FallbackToForm: true},
	}
	cfg.Sanitize()
	return cfg
}

func TestNewServices_WithoutDB(t *testing.T) {
	services := NewServices(&ServiceDeps{Config: testAppConfig()})

	require.NotNil(t, services.Directory)
	require.NotNil(t, services.Tokens)
	require.NotNil(t, services.Auth)
	require.NotNil(t, services.Windows)
	require.NotNil(t, services.Trust)
	assert.Nil(t, services.SAML)
	assert.Nil(t, services.AuthEvents)
}

func TestNewServices_WindowsDisabled(t *testing.T) {
	cfg := testAppConfig()
	cfg.WindowsAuth.Enabled = false

	services := NewServices(&ServiceDeps{Config: cfg})
	assert.Nil(t, services.Windows)
	assert.NotNil(t, services.Trust)
}

func TestNewServices_SAMLEnabled(t *testing.T) {
	cfg := testAppConfig()
	cfg.SAML = config.SAMLConfig{
		Enabled:     true,
		EntryPoint:  "https://idp.example.com/sso",
		Issuer:      "adgate-sp",
		CallbackURL: "http://localhost:8080/auth/saml/callback",
	}

	services := NewServices(&ServiceDeps{Config: cfg})
	assert.NotNil(t, services.SAML)
}

func TestNewHTTPServer_Defaults(t *testing.T) {
	cfg := testAppConfig()
	cfg.HTTP.Addr = ""
	services := NewServices(&ServiceDeps{Config: cfg})

	server := NewHTTPServer(&HTTPServerConfig{Config: cfg, Services: services})
	require.NotNil(t, server)
	assert.Equal(t, ":8080", server.Addr)
	assert.NotNil(t, server.Handler)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{
			name:   "valid dev config",
			mutate: func(c *config.AppConfig) {},
		},
		{
			name: "default secret outside dev",
			mutate: func(c *config.AppConfig) {
				c.IsDev = false
				c.Token.SigningSecret = "dev-signing-secret"
			},
			wantErr: "TOKEN_SIGNING_SECRET",
		},
		{
			name:    "missing base dn",
			mutate:  func(c *config.AppConfig) { c.Directory.BaseDN = "" },
			wantErr: "DIRECTORY_BASE_DN",
		},
		{
			name: "saml enabled without entry point",
			mutate: func(c *config.AppConfig) {
				c.SAML.Enabled = true
				c.SAML.EntryPoint = ""
			},
			wantErr: "SAML_ENTRY_POINT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAppConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
