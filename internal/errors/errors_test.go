package errors

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "user not found",
			},
			want: "user not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeDirectoryUnavailable,
				Message: "directory bind failed",
				Cause:   errors.New("connection refused"),
			},
			want: "directory bind failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantCode ErrorCode
		wantMsg  string
	}{
		{"invalid credentials", InvalidCredentials("bad password"), ErrCodeInvalidCredentials, "bad password"},
		{"directory unavailable", DirectoryUnavailable("dial timeout"), ErrCodeDirectoryUnavailable, "dial timeout"},
		{"not found", NotFound("user not found"), ErrCodeNotFound, "user not found"},
		{"not foundf", NotFoundf("user %s not found", "jdoe"), ErrCodeNotFound, "user jdoe not found"},
		{"expired", Expired("token expired"), ErrCodeExpired, "token expired"},
		{"invalid signature", InvalidSignature("bad signature"), ErrCodeInvalidSignature, "bad signature"},
		{"invalid issuer audience", InvalidIssuerAudience("wrong issuer"), ErrCodeInvalidIssuerAudience, "wrong issuer"},
		{"forbidden network", ForbiddenNetwork("untrusted network"), ErrCodeForbiddenNetwork, "untrusted network"},
		{"unsupported client", UnsupportedClient("unknown browser"), ErrCodeUnsupportedClient, "unknown browser"},
		{"parse failure", ParseFailure("bad token"), ErrCodeParseFailure, "bad token"},
		{"unknown userf", UnknownUserf("no entry for %s", "jdoe"), ErrCodeUnknownUser, "no entry for jdoe"},
		{"not implemented", NotImplemented("kerberos"), ErrCodeNotImplemented, "kerberos"},
		{"unauthorized", Unauthorized("no session"), ErrCodeUnauthorized, "no session"},
		{"validation", Validation("invalid input"), ErrCodeValidation, "invalid input"},
		{"conflict", Conflict("already exists"), ErrCodeConflict, "already exists"},
		{"internal", Internal("boom"), ErrCodeInternal, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %v, want %v", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("username", "username is required")
	if err.Code != ErrCodeValidation {
		t.Errorf("ValidationField().Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if err.Field != "username" {
		t.Errorf("ValidationField().Field = %v, want %v", err.Field, "username")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeDirectoryUnavailable, "search failed")

	if err.Code != ErrCodeDirectoryUnavailable {
		t.Errorf("Wrap().Code = %v, want %v", err.Code, ErrCodeDirectoryUnavailable)
	}
	if err.Message != "search failed" {
		t.Errorf("Wrap().Message = %v, want %v", err.Message, "search failed")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Wrap() should wrap %v", cause)
	}
}

func TestWrap_NilError(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "wrapped error"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := Wrapf(nil, ErrCodeInternal, "wrapped %s", "error"); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name string
		pred func(error) bool
		err  error
		want bool
	}{
		{"invalid credentials match", IsInvalidCredentials, InvalidCredentials("nope"), true},
		{"invalid credentials mismatch", IsInvalidCredentials, NotFound("missing"), false},
		{"directory unavailable match", IsDirectoryUnavailable, DirectoryUnavailable("down"), true},
		{"not found match", IsNotFound, NotFound("missing"), true},
		{"not found wrapped", IsNotFound, Wrap(NotFound("missing"), ErrCodeInternal, "outer"), false},
		{"expired match", IsExpired, Expired("old"), true},
		{"invalid signature match", IsInvalidSignature, InvalidSignature("bad"), true},
		{"issuer audience match", IsInvalidIssuerAudience, InvalidIssuerAudience("wrong"), true},
		{"forbidden network match", IsForbiddenNetwork, ForbiddenNetwork("external"), true},
		{"unsupported client match", IsUnsupportedClient, UnsupportedClient("curl"), true},
		{"parse failure match", IsParseFailure, ParseFailure("garbage"), true},
		{"unknown user match", IsUnknownUser, UnknownUserf("gone"), true},
		{"not implemented match", IsNotImplemented, NotImplemented("kerberos"), true},
		{"unauthorized match", IsUnauthorized, Unauthorized("no token"), true},
		{"validation match", IsValidation, Validation("bad"), true},
		{"conflict match", IsConflict, Conflict("dup"), true},
		{"internal match", IsInternal, Internal("boom"), true},
		{"timeout match", IsTimeout, &AppError{Code: ErrCodeTimeout, Message: "slow"}, true},
		{"standard error", IsNotFound, errors.New("plain"), false},
		{"nil error", IsNotFound, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"app error", Expired("old token"), ErrCodeExpired},
		{"standard error", errors.New("standard error"), ""},
		{"nil error", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetField(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation field error", ValidationField("password", "required"), "password"},
		{"error without field", NotFound("missing"), ""},
		{"standard error", errors.New("standard error"), ""},
		{"nil error", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetField(tt.err); got != tt.want {
				t.Errorf("GetField() = %v, want %v", got, tt.want)
			}
		})
	}
}
