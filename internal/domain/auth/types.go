package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Method records how a session was established.
// Keep string form for easy persistence inside token claims.
type Method string

const (
	MethodForm    Method = "form"
	MethodWindows Method = "windows"
	MethodSAML    Method = "saml"
)

// Credentials carries a form login attempt.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DirectoryUser is the profile mapped from a directory entry.
// Adapters map raw directory attributes into this shape.
type DirectoryUser struct {
	Username    string   // account name (sAMAccountName)
	DN          string   // distinguished name of the entry
	DisplayName string   // common name (cn)
	FirstName   string   // givenName
	LastName    string   // sn
	Email       string   // mail
	Groups      []string // short group names extracted from memberOf
	Department  string
	Title       string
	Phone       string
}

// Session is the verified content of a session token.
type Session struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Groups      []string  `json:"groups"`
	Department  string    `json:"department,omitempty"`
	Title       string    `json:"title,omitempty"`
	Method      Method    `json:"method"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// HasGroup reports whether the session carries the named group.
func (s Session) HasGroup(name string) bool {
	for _, g := range s.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// GroupName extracts the short group name from a memberOf DN.
// "CN=App Admins,OU=Groups,DC=example,DC=com" yields "App Admins".
// Values without a leading CN component are returned unchanged.
func GroupName(dn string) string {
	first, _, _ := strings.Cut(dn, ",")
	if rest, ok := cutPrefixFold(first, "CN="); ok {
		return rest
	}
	return dn
}

// cutPrefixFold is strings.CutPrefix with ASCII case-insensitive matching.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
