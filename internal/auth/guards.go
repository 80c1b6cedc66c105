// Package auth contains the authorization guards evaluated before an action
// executes. Guards short-circuit: the first failing check determines the
// reported error, and no guard performs side effects.
package auth

import (
	"github.com/dundie/rewards-service/internal/models"
	"github.com/dundie/rewards-service/internal/token"
	"github.com/sirupsen/logrus"
)

// UserFinder resolves an acting principal from a token subject.
type UserFinder interface {
	FindUserByUsername(username string) (*models.User, error)
}

// Guard evaluates authorization predicates against a presented token, the
// resolved acting user and the target resource.
type Guard struct {
	tokens *token.Service
	users  UserFinder
	log    *logrus.Logger
}

// NewGuard initializes the guard set.
func NewGuard(tokens *token.Service, users UserFinder, log *logrus.Logger) *Guard {
	return &Guard{tokens: tokens, users: users, log: log}
}

// AuthenticatedUser requires a valid session-scope token and resolves the
// corresponding user. Any token failure surfaces as Unauthorized; the
// specific cause is only logged.
func (g *Guard) AuthenticatedUser(tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, models.ErrUnauthorized
	}
	subject, err := g.tokens.Validate(tokenString, token.ScopeSession)
	if err != nil {
		g.log.Debugf("Session token rejected: %v", err)
		return nil, models.ErrUnauthorized
	}
	user, err := g.users.FindUserByUsername(subject)
	if err != nil {
		g.log.Warnf("Session token for unknown subject %q", subject)
		return nil, models.ErrUnauthorized
	}
	return user, nil
}

// SuperUser requires an authenticated user belonging to the management
// department.
func (g *Guard) SuperUser(tokenString string) (*models.User, error) {
	user, err := g.AuthenticatedUser(tokenString)
	if err != nil {
		return nil, err
	}
	if !user.Superuser() {
		return nil, models.ErrForbidden
	}
	return user, nil
}

// RequireSuperuser checks that an already-resolved principal is a superuser.
func (g *Guard) RequireSuperuser(acting *models.User) error {
	if acting == nil {
		return models.ErrUnauthorized
	}
	if !acting.Superuser() {
		return models.ErrForbidden
	}
	return nil
}

// CanChangeUserPassword permits the session path of a password change:
// self-service, or a superuser acting on anyone. The target is identified by
// username only, so a denial never discloses whether the target exists.
func (g *Guard) CanChangeUserPassword(acting *models.User, targetUsername string) error {
	return selfOrSuperuser(acting, targetUsername)
}

// CanResetPassword permits the reset-link path of a password change: the
// presented token must carry the password-reset scope and name the target as
// its subject. Both entry points converge on the same permission decision.
func (g *Guard) CanResetPassword(resetToken, targetUsername string) error {
	subject, err := g.tokens.Validate(resetToken, token.ScopePasswordReset)
	if err != nil {
		g.log.Debugf("Reset token rejected: %v", err)
		return models.ErrUnauthorized
	}
	if subject != targetUsername {
		return models.ErrForbidden
	}
	return nil
}

// CanUpdateProfile permits profile patches on oneself, or by a superuser on
// anyone.
func (g *Guard) CanUpdateProfile(acting *models.User, targetUsername string) error {
	return selfOrSuperuser(acting, targetUsername)
}

func selfOrSuperuser(acting *models.User, targetUsername string) error {
	if acting == nil {
		return models.ErrUnauthorized
	}
	if acting.Username == targetUsername || acting.Superuser() {
		return nil
	}
	return models.ErrForbidden
}
