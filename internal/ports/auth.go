package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
)

// Directory authenticates users and resolves their profiles against an
// LDAP directory.
type Directory interface {
	// Authenticate verifies username/password and returns the user's
	// directory profile on success.
	Authenticate(ctx context.Context, username, password string) (domainauth.DirectoryUser, error)

	// Lookup returns the directory profile for an account name without
	// any password verification. Used for identities asserted through
	// integrated Windows authentication.
	Lookup(ctx context.Context, username string) (domainauth.DirectoryUser, error)
}

// TokenService mints and verifies session tokens.
type TokenService interface {
	// Issue signs a session token for the user with the given lifetime.
	Issue(user domainauth.DirectoryUser, method domainauth.Method, ttl time.Duration) (string, error)

	// Verify checks signature, expiry, issuer, and audience, returning
	// the embedded session on success.
	Verify(token string) (domainauth.Session, error)

	// Decode extracts the session from a token without verifying it.
	// For diagnostics only; never use the result to authorize.
	Decode(token string) (domainauth.Session, error)
}

// NegotiationResult is the outcome of a Windows auth negotiation step.
type NegotiationResult struct {
	// Session is set when negotiation completed and a token was issued.
	Session domainauth.Session
	// Token is the signed session token accompanying Session.
	Token string
	// Challenge is set when the client must retry with an auth header;
	// its values go into WWW-Authenticate headers.
	Challenge []string
}

// Negotiator drives the Windows integrated authentication exchange.
type Negotiator interface {
	Negotiate(ctx context.Context, in NegotiateInput) (NegotiationResult, error)
}

// NegotiateInput carries the request-level facts negotiation depends on.
type NegotiateInput struct {
	RemoteAddr    string
	UserAgent     string
	Authorization string
}

// AuditRecorder persists authentication events. Implementations must be
// best-effort: auditing failures never block a login.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent)
}

// AuditEvent is a single authentication outcome worth keeping.
type AuditEvent struct {
	Username   string
	Method     domainauth.Method
	Outcome    string
	Detail     string
	RemoteAddr string
}
