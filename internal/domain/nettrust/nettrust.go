// Package nettrust classifies client addresses against trusted CIDR
// ranges. Integrated Windows authentication is only offered to clients
// inside these ranges.
package nettrust

import (
	"net"
	"net/netip"
	"strings"
)

// Checker answers whether an address belongs to a trusted network.
type Checker struct {
	prefixes []netip.Prefix
}

// New builds a Checker from CIDR strings. Entries that do not parse are
// skipped rather than failing the whole set, so a single bad entry in
// configuration cannot disable trust checking entirely.
func New(cidrs []string) *Checker {
	c := &Checker{}
	for _, cidr := range cidrs {
		p, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			continue
		}
		c.prefixes = append(c.prefixes, p.Masked())
	}
	return c
}

// Trusted reports whether addr falls inside any trusted range.
// Unparseable addresses are never trusted.
func (c *Checker) Trusted(addr string) bool {
	ip, err := netip.ParseAddr(hostOnly(addr))
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	for _, p := range c.prefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// Empty reports whether the checker carries no usable ranges.
func (c *Checker) Empty() bool {
	return len(c.prefixes) == 0
}

// hostOnly strips a port from host:port forms, tolerating bare hosts
// and bracketed IPv6 literals.
func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
