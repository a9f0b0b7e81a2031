package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	apperrors "github.com/adgate-io/adgate/internal/errors"
	"github.com/adgate-io/adgate/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Directory     = (*FakeDirectory)(nil)
	_ ports.TokenService  = (*StubTokenService)(nil)
	_ ports.AuditRecorder = (*MemoryAuditRecorder)(nil)
)

// FakeDirectory simulates an LDAP directory with an in-memory account table.
type FakeDirectory struct {
	AuthenticateFunc func(ctx context.Context, username, password string) (domainauth.DirectoryUser, error)
	LookupFunc       func(ctx context.Context, username string) (domainauth.DirectoryUser, error)

	// Users maps account name to profile; Passwords maps account name
	// to the accepted password.
	Users     map[string]domainauth.DirectoryUser
	Passwords map[string]string

	// Unavailable makes every call fail as if the directory were down.
	Unavailable bool
}

// NewFakeDirectory creates a FakeDirectory seeded with one account.
func NewFakeDirectory() *FakeDirectory {
	user := domainauth.DirectoryUser{
		Username:    "jdoe",
		DN:          "CN=Jane Doe,OU=Staff,DC=example,DC=com",
		DisplayName: "Jane Doe",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane.doe@example.com",
		Groups:      []string{"Staff", "VPN Users"},
		Department:  "Engineering",
		Title:       "Engineer",
	}
	return &FakeDirectory{
		Users:     map[string]domainauth.DirectoryUser{user.Username: user},
		Passwords: map[string]string{user.Username: "correct-horse"},
	}
}

func (f *FakeDirectory) Authenticate(ctx context.Context, username, password string) (domainauth.DirectoryUser, error) {
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, username, password)
	}
	if f.Unavailable {
		return domainauth.DirectoryUser{}, apperrors.DirectoryUnavailable("directory unavailable")
	}
	user, err := f.find(username)
	if err != nil {
		return domainauth.DirectoryUser{}, err
	}
	if password == "" || f.Passwords[user.Username] != password {
		return domainauth.DirectoryUser{}, apperrors.InvalidCredentials("invalid credentials")
	}
	return user, nil
}

func (f *FakeDirectory) Lookup(ctx context.Context, username string) (domainauth.DirectoryUser, error) {
	if f.LookupFunc != nil {
		return f.LookupFunc(ctx, username)
	}
	if f.Unavailable {
		return domainauth.DirectoryUser{}, apperrors.DirectoryUnavailable("directory unavailable")
	}
	return f.find(username)
}

// find matches by account name or email, the way the real directory
// search filter does.
func (f *FakeDirectory) find(username string) (domainauth.DirectoryUser, error) {
	for _, u := range f.Users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, username) {
			return u, nil
		}
	}
	return domainauth.DirectoryUser{}, apperrors.NotFoundf("no directory entry for %s", username)
}

// StubTokenService issues predictable unsigned tokens of the form
// "stub-token:<username>" and verifies only tokens it issued.
type StubTokenService struct {
	IssueFunc  func(user domainauth.DirectoryUser, method domainauth.Method, ttl time.Duration) (string, error)
	VerifyFunc func(token string) (domainauth.Session, error)
	DecodeFunc func(token string) (domainauth.Session, error)

	mu     sync.Mutex
	issued map[string]domainauth.Session
}

// NewStubTokenService creates an empty StubTokenService.
func NewStubTokenService() *StubTokenService {
	return &StubTokenService{issued: make(map[string]domainauth.Session)}
}

func (s *StubTokenService) Issue(user domainauth.DirectoryUser, method domainauth.Method, ttl time.Duration) (string, error) {
	if s.IssueFunc != nil {
		return s.IssueFunc(user, method, ttl)
	}
	now := time.Now()
	token := fmt.Sprintf("stub-token:%s", user.Username)
	s.mu.Lock()
	s.issued[token] = domainauth.Session{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Groups:      user.Groups,
		Department:  user.Department,
		Title:       user.Title,
		Method:      method,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}
	s.mu.Unlock()
	return token, nil
}

func (s *StubTokenService) Verify(token string) (domainauth.Session, error) {
	if s.VerifyFunc != nil {
		return s.VerifyFunc(token)
	}
	s.mu.Lock()
	sess, ok := s.issued[token]
	s.mu.Unlock()
	if !ok {
		return domainauth.Session{}, apperrors.InvalidSignature("unknown token")
	}
	if !sess.ExpiresAt.After(time.Now()) {
		return domainauth.Session{}, apperrors.Expired("token expired")
	}
	return sess, nil
}

func (s *StubTokenService) Decode(token string) (domainauth.Session, error) {
	if s.DecodeFunc != nil {
		return s.DecodeFunc(token)
	}
	s.mu.Lock()
	sess, ok := s.issued[token]
	s.mu.Unlock()
	if !ok {
		return domainauth.Session{}, apperrors.ParseFailure("unknown token")
	}
	return sess, nil
}

// MemoryAuditRecorder collects audit events for assertions.
type MemoryAuditRecorder struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

// NewMemoryAuditRecorder creates an empty MemoryAuditRecorder.
func NewMemoryAuditRecorder() *MemoryAuditRecorder {
	return &MemoryAuditRecorder{}
}

func (m *MemoryAuditRecorder) Record(_ context.Context, event ports.AuditEvent) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (m *MemoryAuditRecorder) Events() []ports.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.AuditEvent(nil), m.events...)
}
