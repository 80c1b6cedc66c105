package auth

import (
	"io"
	"testing"
	"time"

	"github.com/dundie/rewards-service/internal/models"
	"github.com/dundie/rewards-service/internal/token"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder map[string]*models.User

func (f fakeFinder) FindUserByUsername(username string) (*models.User, error) {
	if user, ok := f[username]; ok {
		return user, nil
	}
	return nil, models.ErrNotFound
}

func newTestGuard(users fakeFinder) (*Guard, *token.Service) {
	tokens := token.NewService("test-secret", time.Hour, 10*time.Minute)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGuard(tokens, users, logger), tokens
}

func testUsers() fakeFinder {
	return fakeFinder{
		"michael": {ID: 1, Username: "michael", Dept: models.ManagementDept},
		"jim":     {ID: 2, Username: "jim", Dept: "sales"},
		"pam":     {ID: 3, Username: "pam", Dept: "reception"},
	}
}

func TestAuthenticatedUser(t *testing.T) {
	guard, tokens := newTestGuard(testUsers())

	tokenString, err := tokens.IssueSession("jim")
	require.NoError(t, err)

	user, err := guard.AuthenticatedUser(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "jim", user.Username)
}

func TestAuthenticatedUserRejections(t *testing.T) {
	guard, tokens := newTestGuard(testUsers())

	resetToken, err := tokens.IssueReset("jim")
	require.NoError(t, err)
	ghostToken, err := tokens.IssueSession("ghost")
	require.NoError(t, err)

	tests := []struct {
		name        string
		tokenString string
	}{
		{"missing token", ""},
		{"garbage token", "not.a.jwt"},
		{"reset scope used as session", resetToken},
		{"unknown subject", ghostToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := guard.AuthenticatedUser(tt.tokenString)
			assert.ErrorIs(t, err, models.ErrUnauthorized)
		})
	}
}

func TestSuperUser(t *testing.T) {
	guard, tokens := newTestGuard(testUsers())

	managerToken, err := tokens.IssueSession("michael")
	require.NoError(t, err)
	user, err := guard.SuperUser(managerToken)
	require.NoError(t, err)
	assert.True(t, user.Superuser())

	salesToken, err := tokens.IssueSession("jim")
	require.NoError(t, err)
	_, err = guard.SuperUser(salesToken)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCanChangeUserPassword(t *testing.T) {
	guard, _ := newTestGuard(testUsers())
	users := testUsers()

	tests := []struct {
		name    string
		acting  *models.User
		target  string
		wantErr error
	}{
		{"self service", users["jim"], "jim", nil},
		{"superuser on anyone", users["michael"], "jim", nil},
		{"peer forbidden", users["jim"], "pam", models.ErrForbidden},
		{"no principal", nil, "jim", models.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.CanChangeUserPassword(tt.acting, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanResetPassword(t *testing.T) {
	guard, tokens := newTestGuard(testUsers())

	resetToken, err := tokens.IssueReset("jim")
	require.NoError(t, err)

	assert.NoError(t, guard.CanResetPassword(resetToken, "jim"))
	assert.ErrorIs(t, guard.CanResetPassword(resetToken, "pam"), models.ErrForbidden)

	sessionToken, err := tokens.IssueSession("jim")
	require.NoError(t, err)
	assert.ErrorIs(t, guard.CanResetPassword(sessionToken, "jim"), models.ErrUnauthorized)

	expiredToken, err := tokens.Issue("jim", token.ScopePasswordReset, -1*time.Second)
	require.NoError(t, err)
	assert.ErrorIs(t, guard.CanResetPassword(expiredToken, "jim"), models.ErrUnauthorized)
}

func TestCanUpdateProfile(t *testing.T) {
	guard, _ := newTestGuard(testUsers())
	users := testUsers()

	assert.NoError(t, guard.CanUpdateProfile(users["pam"], "pam"))
	assert.NoError(t, guard.CanUpdateProfile(users["michael"], "pam"))
	assert.ErrorIs(t, guard.CanUpdateProfile(users["pam"], "jim"), models.ErrForbidden)
}
