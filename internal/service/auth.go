package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/adgate-io/adgate/config"
	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	apperrors "github.com/adgate-io/adgate/internal/errors"
	"github.com/adgate-io/adgate/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Directory ports.Directory
	Tokens    ports.TokenService
	Audit     ports.AuditRecorder
	Config    config.TokenConfig
	Logger    *slog.Logger
}

// AuthService orchestrates login flows by coordinating the directory,
// the token service, and the audit trail.
type AuthService struct {
	directory ports.Directory
	tokens    ports.TokenService
	audit     ports.AuditRecorder
	cfg       config.TokenConfig
	logger    *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		directory: opts.Directory,
		tokens:    opts.Tokens,
		audit:     opts.Audit,
		cfg:       opts.Config,
		logger:    logger,
	}
}

// LoginResult contains the outcome of a successful login.
type LoginResult struct {
	Session domainauth.Session
	Token   string
}

// Login authenticates form credentials against the directory and issues
// a session token.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials, remoteAddr string) (*LoginResult, error) {
	if creds.Username == "" {
		return nil, apperrors.ValidationField("username", "username is required")
	}
	if creds.Password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}

	user, err := s.directory.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		s.record(ctx, creds.Username, domainauth.MethodForm, "failure", apperrors.GetCode(err), remoteAddr)
		return nil, err
	}

	return s.establish(ctx, user, domainauth.MethodForm, s.cfg.TTL, remoteAddr)
}

// LoginWindows issues a session for a directory user whose identity was
// established through integrated Windows authentication. The shorter
// Windows lifetime applies.
func (s *AuthService) LoginWindows(ctx context.Context, user domainauth.DirectoryUser, remoteAddr string) (*LoginResult, error) {
	return s.establish(ctx, user, domainauth.MethodWindows, s.cfg.WindowsTTL, remoteAddr)
}

// LoginSAML issues a session for a user resolved from a SAML assertion.
func (s *AuthService) LoginSAML(ctx context.Context, user domainauth.DirectoryUser, remoteAddr string) (*LoginResult, error) {
	return s.establish(ctx, user, domainauth.MethodSAML, s.cfg.TTL, remoteAddr)
}

// Refresh exchanges a valid session token for a fresh one with a full
// lifetime. The new token keeps the original authentication method and
// its corresponding lifetime.
func (s *AuthService) Refresh(ctx context.Context, token, remoteAddr string) (*LoginResult, error) {
	sess, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	// Re-resolve the user so directory changes (group moves, renames)
	// take effect on refresh.
	user, err := s.directory.Lookup(ctx, sess.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.record(ctx, sess.Username, sess.Method, "failure", apperrors.ErrCodeUnknownUser, remoteAddr)
			return nil, apperrors.UnknownUserf("account %s no longer resolves", sess.Username)
		}
		return nil, err
	}

	ttl := s.cfg.TTL
	if sess.Method == domainauth.MethodWindows {
		ttl = s.cfg.WindowsTTL
	}
	return s.establish(ctx, user, sess.Method, ttl, remoteAddr)
}

// Verify validates a session token and returns its session.
func (s *AuthService) Verify(token string) (domainauth.Session, error) {
	return s.tokens.Verify(token)
}

// establish issues a token and records the successful login.
func (s *AuthService) establish(ctx context.Context, user domainauth.DirectoryUser, method domainauth.Method, ttl time.Duration, remoteAddr string) (*LoginResult, error) {
	token, err := s.tokens.Issue(user, method, ttl)
	if err != nil {
		return nil, err
	}

	sess, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}

	s.record(ctx, user.Username, method, "success", "", remoteAddr)
	s.logger.Info("session established",
		"username", user.Username,
		"method", method,
		"expires_at", sess.ExpiresAt)

	return &LoginResult{Session: sess, Token: token}, nil
}

// record writes an audit event when a recorder is configured.
func (s *AuthService) record(ctx context.Context, username string, method domainauth.Method, outcome string, code apperrors.ErrorCode, remoteAddr string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, ports.AuditEvent{
		Username:   username,
		Method:     method,
		Outcome:    outcome,
		Detail:     string(code),
		RemoteAddr: remoteAddr,
	})
}
