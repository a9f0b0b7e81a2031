package service

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/adgate-io/adgate/config"
	"github.com/adgate-io/adgate/internal/adapters/spnego"
	"github.com/adgate-io/adgate/internal/domain/nettrust"
	"github.com/adgate-io/adgate/internal/domain/ntlm"
	apperrors "github.com/adgate-io/adgate/internal/errors"
	"github.com/adgate-io/adgate/internal/ports"
)

// supportedBrowsers are user-agent markers of browsers able to respond
// to a Negotiate/NTLM challenge.
var supportedBrowsers = []string{"Trident", "Edge", "Chrome", "Firefox"}

// negotiateChallenge is the WWW-Authenticate offer sent when a trusted,
// capable client arrives without an authorization header.
var negotiateChallenge = []string{"Negotiate", "NTLM"}

// WindowsAuthOptions groups dependencies for WindowsAuthService.
type WindowsAuthOptions struct {
	Auth   *AuthService
	Trust  *nettrust.Checker
	Config config.WindowsAuthConfig
	Logger *slog.Logger
}

// WindowsAuthService drives the Windows integrated authentication
// exchange: trust gating, browser gating, challenge, and token dispatch.
type WindowsAuthService struct {
	auth   *AuthService
	trust  *nettrust.Checker
	cfg    config.WindowsAuthConfig
	logger *slog.Logger
}

// NewWindowsAuthService constructs a WindowsAuthService.
func NewWindowsAuthService(opts WindowsAuthOptions) *WindowsAuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	trust := opts.Trust
	if trust == nil {
		trust = nettrust.New(opts.Config.TrustedNetworks)
	}
	return &WindowsAuthService{
		auth:   opts.Auth,
		trust:  trust,
		cfg:    opts.Config,
		logger: logger,
	}
}

// Negotiate runs one step of the Windows auth exchange.
//
// The order of checks is fixed: network trust first, then browser
// capability, then header presence. A missing header yields a challenge
// result; a present header is decoded and dispatched by scheme.
func (s *WindowsAuthService) Negotiate(ctx context.Context, in ports.NegotiateInput) (ports.NegotiationResult, error) {
	if !s.cfg.Enabled {
		return ports.NegotiationResult{}, apperrors.NotImplemented("windows authentication is disabled")
	}

	if !s.trust.Trusted(in.RemoteAddr) {
		s.logger.Info("windows auth refused for untrusted network", "remote_addr", in.RemoteAddr)
		return ports.NegotiationResult{}, apperrors.ForbiddenNetwork("client network is not trusted for integrated auth")
	}

	if !browserSupported(in.UserAgent) {
		return ports.NegotiationResult{}, apperrors.UnsupportedClient("browser cannot perform integrated auth")
	}

	if in.Authorization == "" {
		return ports.NegotiationResult{Challenge: negotiateChallenge}, nil
	}

	switch {
	case strings.HasPrefix(in.Authorization, "Negotiate "):
		return s.handleNegotiate(ctx, strings.TrimPrefix(in.Authorization, "Negotiate "), in.RemoteAddr)
	case strings.HasPrefix(in.Authorization, "NTLM "):
		return s.handleNTLM(ctx, strings.TrimPrefix(in.Authorization, "NTLM "), in.RemoteAddr)
	default:
		return ports.NegotiationResult{}, apperrors.ParseFailure("unsupported authorization scheme")
	}
}

// handleNegotiate unwraps a SPNEGO token and dispatches on its mechanism.
func (s *WindowsAuthService) handleNegotiate(ctx context.Context, payload, remoteAddr string) (ports.NegotiationResult, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return ports.NegotiationResult{}, apperrors.Wrap(err, apperrors.ErrCodeParseFailure, "negotiate payload is not valid base64")
	}

	tok, err := spnego.Unwrap(data)
	if err != nil {
		return ports.NegotiationResult{}, err
	}

	switch tok.Mechanism {
	case spnego.MechanismNTLM:
		return s.completeNTLM(ctx, tok.MechToken, remoteAddr)
	case spnego.MechanismKerberos:
		// Ticket validation needs a service keytab the broker does not
		// hold; clients fall back to NTLM or the login form.
		return ports.NegotiationResult{}, apperrors.NotImplemented("kerberos tickets are not accepted")
	default:
		return ports.NegotiationResult{}, apperrors.ParseFailure("negotiate token carries no usable mechanism")
	}
}

// handleNTLM decodes a bare NTLM authorization payload.
func (s *WindowsAuthService) handleNTLM(ctx context.Context, payload, remoteAddr string) (ports.NegotiationResult, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return ports.NegotiationResult{}, apperrors.Wrap(err, apperrors.ErrCodeParseFailure, "ntlm payload is not valid base64")
	}
	return s.completeNTLM(ctx, data, remoteAddr)
}

// completeNTLM extracts the asserted identity, applies the domain gate,
// verifies the account against the directory, and issues a session.
func (s *WindowsAuthService) completeNTLM(ctx context.Context, data []byte, remoteAddr string) (ports.NegotiationResult, error) {
	id, err := ntlm.ParseAuthenticate(data)
	if err != nil {
		return ports.NegotiationResult{}, err
	}

	if s.cfg.Domain != "" && id.Domain != "" && !strings.EqualFold(s.cfg.Domain, id.Domain) {
		return ports.NegotiationResult{}, apperrors.Newf(apperrors.ErrCodeUnknownUser, "domain %s is not accepted", id.Domain)
	}

	username := stripDomain(id.Username)
	user, err := s.auth.directory.Lookup(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ports.NegotiationResult{}, apperrors.UnknownUserf("no directory entry for %s", username)
		}
		return ports.NegotiationResult{}, err
	}

	result, err := s.auth.LoginWindows(ctx, user, remoteAddr)
	if err != nil {
		return ports.NegotiationResult{}, err
	}
	return ports.NegotiationResult{Session: result.Session, Token: result.Token}, nil
}

// browserSupported reports whether the user agent names a browser that
// can complete a Negotiate exchange. Matching is case-insensitive;
// user agent strings are not reliably cased.
func browserSupported(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range supportedBrowsers {
		if strings.Contains(ua, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// stripDomain reduces DOMAIN\user and user@domain forms to the bare
// account name.
func stripDomain(username string) string {
	if _, after, found := strings.Cut(username, `\`); found {
		return after
	}
	if before, _, found := strings.Cut(username, "@"); found {
		return before
	}
	return username
}
