package config

import "slices"

// WindowsAuthConfig contains Windows integrated authentication configuration.
//
// Negotiation is only offered to clients on trusted networks; requests from
// elsewhere are redirected to the form login.
type WindowsAuthConfig struct {
	// Enabled turns the negotiate endpoint on.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// TrustedNetworks holds additional CIDR ranges whose clients may
	// negotiate. The RFC1918 and loopback built-ins are always active;
	// configured ranges extend them.
	TrustedNetworks []string `env:"TRUSTED_NETWORKS" envSeparator:";"`

	// FallbackToForm redirects failed negotiations to the form login
	// instead of returning an error payload.
	FallbackToForm bool `env:"FALLBACK_TO_FORM" envDefault:"true"`

	// Domain is the expected NetBIOS domain for negotiated identities.
	// Empty accepts any domain.
	Domain string `env:"DOMAIN"`
}

// DefaultTrustedNetworks covers private address space and loopback.
var DefaultTrustedNetworks = []string{
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
}

// Sanitize applies guardrails to Windows auth configuration values.
// The built-in trusted ranges are always kept; configured ranges are
// appended, never substituted.
func (c *WindowsAuthConfig) Sanitize() {
	networks := append([]string(nil), DefaultTrustedNetworks...)
	for _, cidr := range c.TrustedNetworks {
		if !slices.Contains(networks, cidr) {
			networks = append(networks, cidr)
		}
	}
	c.TrustedNetworks = networks
}
