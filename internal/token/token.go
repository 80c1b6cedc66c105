package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope declares the purpose a token was issued for. A token only authorizes
// actions that require its own scope.
type Scope string

const (
	// ScopeSession authorizes general API access.
	ScopeSession Scope = "session"
	// ScopePasswordReset authorizes a single password change via a reset link.
	// Single use is convention only: expiry is the sole replay guard.
	ScopePasswordReset Scope = "password-reset"
)

var (
	ErrExpired          = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrScopeMismatch    = errors.New("token scope mismatch")
	ErrMalformed        = errors.New("malformed token")
)

// Claims carries the subject username plus the scope the token was minted for.
type Claims struct {
	Scope Scope `json:"scope"`
	jwt.RegisteredClaims
}

// Service issues and validates signed, expiring tokens. The signing key is
// process-wide configuration loaded once at startup.
type Service struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewService initializes a token service with the given signing key and TTLs.
func NewService(secret string, sessionTTL, resetTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// Issue produces a signed token for subject with the given scope,
// expiring at now + ttl.
func (s *Service) Issue(subject string, scope Scope, ttl time.Duration) (string, error) {
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// IssueSession mints a session-scope token with the configured session TTL.
func (s *Service) IssueSession(subject string) (string, error) {
	return s.Issue(subject, ScopeSession, s.sessionTTL)
}

// IssueReset mints a password-reset-scope token with the configured reset TTL.
func (s *Service) IssueReset(subject string) (string, error) {
	return s.Issue(subject, ScopePasswordReset, s.resetTTL)
}

// ResetTTL exposes the reset-token lifetime for use in the reset email body.
func (s *Service) ResetTTL() time.Duration {
	return s.resetTTL
}

// Validate checks signature, expiry and scope, and returns the subject
// username on success.
func (s *Service) Validate(tokenString string, required Scope) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		default:
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if !token.Valid {
		return "", ErrMalformed
	}
	if claims.Scope != required {
		return "", ErrScopeMismatch
	}
	return claims.Subject, nil
}
