package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseDirectoryEnv(t *testing.T) {
	t.Setenv("DIRECTORY_URL", "ldaps://dc01.example.com:636")
	t.Setenv("DIRECTORY_BASE_DN", "dc=example,dc=com")
	t.Setenv("DIRECTORY_BIND_DN", "cn=svc-sso,ou=service,dc=example,dc=com")
	t.Setenv("DIRECTORY_BIND_PASSWORD", "svc-secret")
	t.Setenv("DIRECTORY_DIAL_TIMEOUT", "3s")
	t.Setenv("DIRECTORY_OPERATION_TIMEOUT", "2s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := DirectoryConfig{
		URL:              "ldaps://dc01.example.com:636",
		BaseDN:           "dc=example,dc=com",
		BindDN:           "cn=svc-sso,ou=service,dc=example,dc=com",
		BindPassword:     "svc-secret",
		DialTimeout:      3 * time.Second,
		OperationTimeout: 2 * time.Second,
	}

	if !reflect.DeepEqual(cfg.Directory, expected) {
		t.Fatalf("unexpected directory configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Directory)
	}
}

func TestAppConfig_ParseTokenEnv(t *testing.T) {
	t.Setenv("TOKEN_SIGNING_SECRET", "super-secret")
	t.Setenv("TOKEN_ISSUER", "sso.example.com")
	t.Setenv("TOKEN_AUDIENCE", "example-apps")
	t.Setenv("TOKEN_TTL", "12h")
	t.Setenv("TOKEN_WINDOWS_TTL", "4h")
	t.Setenv("TOKEN_COOKIE_NAME", "session")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := TokenConfig{
		SigningSecret: "super-secret",
		Issuer:        "sso.example.com",
		Audience:      "example-apps",
		TTL:           12 * time.Hour,
		WindowsTTL:    4 * time.Hour,
		CookieName:    "session",
	}

	if !reflect.DeepEqual(cfg.Token, expected) {
		t.Fatalf("unexpected token configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Token)
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Token.TTL != 24*time.Hour {
		t.Errorf("expected default TTL 24h, got %v", cfg.Token.TTL)
	}
	if cfg.Token.WindowsTTL != 8*time.Hour {
		t.Errorf("expected default Windows TTL 8h, got %v", cfg.Token.WindowsTTL)
	}
	if cfg.Token.CookieName != "auth-token" {
		t.Errorf("expected default cookie name auth-token, got %q", cfg.Token.CookieName)
	}
	if !reflect.DeepEqual(cfg.WindowsAuth.TrustedNetworks, DefaultTrustedNetworks) {
		t.Errorf("expected default trusted networks, got %v", cfg.WindowsAuth.TrustedNetworks)
	}
	if !reflect.DeepEqual(cfg.HTTP.ProtectedPrefixes, DefaultProtectedPrefixes) {
		t.Errorf("expected default protected prefixes, got %v", cfg.HTTP.ProtectedPrefixes)
	}
	if !reflect.DeepEqual(cfg.HTTP.PublicPrefixes, DefaultPublicPrefixes) {
		t.Errorf("expected default public prefixes, got %v", cfg.HTTP.PublicPrefixes)
	}
	if cfg.SAML.Enabled {
		t.Error("expected SAML to be disabled by default")
	}
	if cfg.AuditEnabled {
		t.Error("expected audit to be disabled by default")
	}
}

func TestAppConfig_WindowsAuthEnv(t *testing.T) {
	t.Setenv("WINDOWS_AUTH_ENABLED", "true")
	t.Setenv("WINDOWS_AUTH_TRUSTED_NETWORKS", "10.20.0.0/16;192.168.1.0/24")
	t.Setenv("WINDOWS_AUTH_FALLBACK_TO_FORM", "false")
	t.Setenv("WINDOWS_AUTH_DOMAIN", "CORP")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := WindowsAuthConfig{
		Enabled:         true,
		TrustedNetworks: append(append([]string(nil), DefaultTrustedNetworks...), "10.20.0.0/16", "192.168.1.0/24"),
		FallbackToForm:  false,
		Domain:          "CORP",
	}

	if !reflect.DeepEqual(cfg.WindowsAuth, expected) {
		t.Fatalf("unexpected windows auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.WindowsAuth)
	}
}

func TestWindowsAuthConfig_SanitizeKeepsBuiltins(t *testing.T) {
	cfg := WindowsAuthConfig{TrustedNetworks: []string{"203.0.113.0/24", "10.0.0.0/8"}}
	cfg.Sanitize()

	expected := append(append([]string(nil), DefaultTrustedNetworks...), "203.0.113.0/24")
	if !reflect.DeepEqual(cfg.TrustedNetworks, expected) {
		t.Fatalf("unexpected trusted networks:\nexpected: %v\ngot:      %v", expected, cfg.TrustedNetworks)
	}
}

func TestDirectoryConfig_Sanitize(t *testing.T) {
	cfg := DirectoryConfig{DialTimeout: -1, OperationTimeout: 0}
	cfg.Sanitize()

	if cfg.DialTimeout != 10*time.Second {
		t.Errorf("expected dial timeout default, got %v", cfg.DialTimeout)
	}
	if cfg.OperationTimeout != 5*time.Second {
		t.Errorf("expected operation timeout default, got %v", cfg.OperationTimeout)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("expected dev mode from NODE_ENV=development")
	}
}
