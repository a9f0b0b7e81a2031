package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adgate-io/adgate/config"
	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	apperrors "github.com/adgate-io/adgate/internal/errors"
)

// SessionClaims is the JWT claim set carried by session tokens.
type SessionClaims struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email"`
	Groups      []string `json:"groups"`
	Department  string   `json:"department,omitempty"`
	Title       string   `json:"title,omitempty"`
	Method      string   `json:"method"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies HMAC-signed session tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

// NewTokenService creates a TokenService from configuration.
func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		signingKey: []byte(cfg.SigningSecret),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		now:        time.Now,
	}
}

// Issue signs a session token for the user with the given lifetime.
func (s *TokenService) Issue(user domainauth.DirectoryUser, method domainauth.Method, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Groups:      user.Groups,
		Department:  user.Department,
		Title:       user.Title,
		Method:      string(method),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "token signing failed")
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer, and audience, returning the
// embedded session on success. A token at its exact expiry instant is
// already expired.
func (s *TokenService) Verify(tokenString string) (domainauth.Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(_ *jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeExpired, "token has expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidSignature, "token signature does not verify")
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidIssuerAudience, "token issuer or audience mismatch")
		default:
			return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeParseFailure, "token could not be parsed")
		}
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok {
		return domainauth.Session{}, apperrors.ParseFailure("unexpected token claims shape")
	}

	// jwt.ErrTokenExpired treats exp as valid at the exact instant;
	// session tokens are not.
	if claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(s.now()) {
		return domainauth.Session{}, apperrors.Expired("token has expired")
	}

	return sessionFromClaims(claims), nil
}

// Decode extracts the session from a token without verifying it.
// For diagnostics only; never use the result to authorize.
func (s *TokenService) Decode(tokenString string) (domainauth.Session, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, &SessionClaims{})
	if err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeParseFailure, "token could not be decoded")
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok {
		return domainauth.Session{}, apperrors.ParseFailure("unexpected token claims shape")
	}
	return sessionFromClaims(claims), nil
}

// IsExpired reports whether the token's expiry has passed without checking
// the signature. Advisory only, like Decode.
func (s *TokenService) IsExpired(tokenString string) bool {
	sess, err := s.Decode(tokenString)
	if err != nil {
		return true
	}
	return !sess.ExpiresAt.After(s.now())
}

func sessionFromClaims(claims *SessionClaims) domainauth.Session {
	sess := domainauth.Session{
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		Groups:      claims.Groups,
		Department:  claims.Department,
		Title:       claims.Title,
		Method:      domainauth.Method(claims.Method),
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess
}
