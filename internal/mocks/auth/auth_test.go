package auth

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	apperrors "github.com/adgate-io/adgate/internal/errors"
	"github.com/adgate-io/adgate/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeDirectory_Authenticate(t *testing.T) {
	dir := NewFakeDirectory()
	ctx := context.Background()

	user, err := dir.Authenticate(ctx, "jdoe", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	assert.Equal(t, "Jane Doe", user.DisplayName)
	assert.Equal(t, []string{"Staff", "VPN Users"}, user.Groups)
}

func TestFakeDirectory_Authenticate_ByEmail(t *testing.T) {
	dir := NewFakeDirectory()

	user, err := dir.Authenticate(context.Background(), "jane.doe@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
}

func TestFakeDirectory_Authenticate_WrongPassword(t *testing.T) {
	dir := NewFakeDirectory()

	_, err := dir.Authenticate(context.Background(), "jdoe", "wrong")
	assert.True(t, apperrors.IsInvalidCredentials(err))

	_, err = dir.Authenticate(context.Background(), "jdoe", "")
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestFakeDirectory_Authenticate_UnknownUser(t *testing.T) {
	dir := NewFakeDirectory()

	_, err := dir.Authenticate(context.Background(), "ghost", "whatever")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFakeDirectory_Unavailable(t *testing.T) {
	dir := NewFakeDirectory()
	dir.Unavailable = true

	_, err := dir.Authenticate(context.Background(), "jdoe", "correct-horse")
	assert.True(t, apperrors.IsDirectoryUnavailable(err))

	_, err = dir.Lookup(context.Background(), "jdoe")
	assert.True(t, apperrors.IsDirectoryUnavailable(err))
}

func TestFakeDirectory_Lookup(t *testing.T) {
	dir := NewFakeDirectory()

	user, err := dir.Lookup(context.Background(), "JDOE")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)

	_, err = dir.Lookup(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFakeDirectory_CustomFunc(t *testing.T) {
	dir := &FakeDirectory{
		AuthenticateFunc: func(_ context.Context, username, _ string) (domainauth.DirectoryUser, error) {
			return domainauth.DirectoryUser{Username: username}, nil
		},
	}

	user, err := dir.Authenticate(context.Background(), "anyone", "anything")
	require.NoError(t, err)
	assert.Equal(t, "anyone", user.Username)
}

func TestStubTokenService_IssueAndVerify(t *testing.T) {
	svc := NewStubTokenService()
	user := domainauth.DirectoryUser{
		Username:    "jdoe",
		DisplayName: "Jane Doe",
		Email:       "jane.doe@example.com",
		Groups:      []string{"Staff"},
	}

	token, err := svc.Issue(user, domainauth.MethodForm, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "stub-token:jdoe", token)

	sess, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", sess.Username)
	assert.Equal(t, domainauth.MethodForm, sess.Method)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
}

func TestStubTokenService_Verify_UnknownToken(t *testing.T) {
	svc := NewStubTokenService()

	_, err := svc.Verify("never-issued")
	assert.True(t, apperrors.IsInvalidSignature(err))
}

func TestStubTokenService_Verify_Expired(t *testing.T) {
	svc := NewStubTokenService()
	user := domainauth.DirectoryUser{Username: "jdoe"}

	token, err := svc.Issue(user, domainauth.MethodWindows, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, apperrors.IsExpired(err))

	// Decode still works on expired tokens.
	sess, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", sess.Username)
}

func TestMemoryAuditRecorder(t *testing.T) {
	rec := NewMemoryAuditRecorder()
	rec.Record(context.Background(), ports.AuditEvent{
		Username: "jdoe",
		Method:   domainauth.MethodForm,
		Outcome:  "success",
	})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "jdoe", events[0].Username)
	assert.Equal(t, "success", events[0].Outcome)
}
