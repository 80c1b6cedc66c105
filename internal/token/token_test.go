package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService() *Service {
	return NewService(testSecret, time.Hour, 10*time.Minute)
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService()

	tokenString, err := svc.IssueSession("jim")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	subject, err := svc.Validate(tokenString, ScopeSession)
	require.NoError(t, err)
	assert.Equal(t, "jim", subject)
}

func TestValidateScopeMismatch(t *testing.T) {
	svc := newTestService()

	sessionToken, err := svc.IssueSession("jim")
	require.NoError(t, err)
	_, err = svc.Validate(sessionToken, ScopePasswordReset)
	assert.ErrorIs(t, err, ErrScopeMismatch)

	resetToken, err := svc.IssueReset("jim")
	require.NoError(t, err)
	_, err = svc.Validate(resetToken, ScopeSession)
	assert.ErrorIs(t, err, ErrScopeMismatch)
}

func TestValidateExpired(t *testing.T) {
	svc := newTestService()

	tokenString, err := svc.Issue("jim", ScopeSession, -1*time.Second)
	require.NoError(t, err)

	_, err = svc.Validate(tokenString, ScopeSession)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewService("another-secret", time.Hour, 10*time.Minute)

	tokenString, err := other.IssueSession("jim")
	require.NoError(t, err)

	_, err = svc.Validate(tokenString, ScopeSession)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateMalformed(t *testing.T) {
	svc := newTestService()

	_, err := svc.Validate("not.a.jwt", ScopeSession)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestResetTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	tokenString, err := svc.IssueReset("pam")
	require.NoError(t, err)

	subject, err := svc.Validate(tokenString, ScopePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "pam", subject)
}
