package config

import "time"

// DirectoryConfig contains LDAP directory connection and search configuration.
//
// The broker binds to the directory twice per login: once with the service
// account to locate the user entry, then once with the user's own DN to
// verify the supplied password.
type DirectoryConfig struct {
	// URL is the LDAP server URL (ldap:// or ldaps://).
	URL string `env:"URL" envDefault:"ldap://localhost:389"`

	// BaseDN is the search base for user entries.
	BaseDN string `env:"BASE_DN" envDefault:"dc=example,dc=com"`

	// BindDN is the service account DN used for the lookup bind.
	BindDN string `env:"BIND_DN"`

	// BindPassword is the service account password.
	BindPassword string `env:"BIND_PASSWORD"`

	// DialTimeout bounds establishing the TCP connection.
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"10s"`

	// OperationTimeout bounds each bind and search operation.
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to directory configuration values.
func (c *DirectoryConfig) Sanitize() {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = 5 * time.Second
	}
}
