package nettrust

import (
	"testing"

	"github.com/adgate-io/adgate/config"
)

func TestChecker_DefaultRanges(t *testing.T) {
	c := New(config.DefaultTrustedNetworks)

	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"ten net", "10.1.2.3", true},
		{"ten net edge", "10.255.255.255", true},
		{"one seventy two", "172.16.0.1", true},
		{"one seventy two upper bound", "172.31.255.254", true},
		{"one seventy two outside", "172.32.0.1", false},
		{"rfc1918 class c", "192.168.1.50", true},
		{"loopback", "127.0.0.1", true},
		{"public", "8.8.8.8", false},
		{"public edge", "11.0.0.1", false},
		{"with port", "192.168.1.50:54123", true},
		{"public with port", "203.0.113.9:443", false},
		{"garbage", "not-an-ip", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Trusted(tt.addr); got != tt.want {
				t.Errorf("Trusted(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestChecker_CustomRanges(t *testing.T) {
	c := New([]string{"100.64.0.0/10", " 192.0.2.0/24 "})

	if !c.Trusted("100.64.10.20") {
		t.Error("expected CGNAT range to be trusted")
	}
	if !c.Trusted("192.0.2.77") {
		t.Error("expected trimmed range to be trusted")
	}
	if c.Trusted("10.0.0.1") {
		t.Error("default ranges should not apply to a custom checker")
	}
}

func TestChecker_ConfiguredRangesExtendBuiltins(t *testing.T) {
	cfg := config.WindowsAuthConfig{TrustedNetworks: []string{"203.0.113.0/24"}}
	cfg.Sanitize()

	c := New(cfg.TrustedNetworks)

	if !c.Trusted("203.0.113.10") {
		t.Error("configured range should be trusted")
	}
	if !c.Trusted("192.168.1.5") {
		t.Error("built-in private ranges must survive configured additions")
	}
	if c.Trusted("8.8.8.8") {
		t.Error("public address should stay untrusted")
	}
}

func TestChecker_SkipsBadEntries(t *testing.T) {
	c := New([]string{"not-a-cidr", "10.0.0.0/8"})

	if c.Empty() {
		t.Fatal("valid entry should survive a bad sibling")
	}
	if !c.Trusted("10.9.9.9") {
		t.Error("valid range should still match")
	}
}

func TestChecker_Empty(t *testing.T) {
	c := New(nil)
	if !c.Empty() {
		t.Fatal("expected empty checker")
	}
	if c.Trusted("10.0.0.1") {
		t.Error("empty checker trusts nothing")
	}
}

func TestChecker_MappedIPv6(t *testing.T) {
	c := New([]string{"10.0.0.0/8"})
	if !c.Trusted("::ffff:10.1.2.3") {
		t.Error("IPv4-mapped address should match its IPv4 range")
	}
}
