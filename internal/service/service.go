package service

import (
	"errors"
	"fmt"

	"github.com/dundie/rewards-service/internal/config"
	"github.com/dundie/rewards-service/internal/models"
	"github.com/dundie/rewards-service/internal/repository"
	"github.com/dundie/rewards-service/internal/token"
	"github.com/dundie/rewards-service/internal/utils/email"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	tokens *token.Service
	mailer *email.Mailer
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, tokens *token.Service, mailer *email.Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, tokens: tokens, mailer: mailer, log: log, config: cfg}
}

// Login verifies credentials and returns a session token
func (s *Service) Login(username, password string) (string, error) {
	user, err := s.repo.FindUserByUsername(username)
	if err != nil {
		// Same error for unknown user and bad password
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	tokenString, err := s.tokens.IssueSession(user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return tokenString, nil
}

// CreateUserDraft is the payload for user provisioning.
type CreateUserDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Dept     string `json:"dept"`
	Password string `json:"password"`
	Currency string `json:"currency"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

// CreateUser provisions a new user with a hashed password. The username is
// derived from the display name when not supplied.
func (s *Service) CreateUser(draft CreateUserDraft) (*models.User, error) {
	if draft.Name == "" || draft.Email == "" || draft.Dept == "" || draft.Password == "" {
		return nil, fmt.Errorf("name, email, dept and password are required: %w", models.ErrValidation)
	}
	if draft.Username == "" {
		draft.Username = models.GenerateUsername(draft.Name)
	}
	if draft.Currency == "" {
		draft.Currency = "USD"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        draft.Email,
		Username:     draft.Username,
		Name:         draft.Name,
		Dept:         draft.Dept,
		Currency:     draft.Currency,
		Avatar:       draft.Avatar,
		Bio:          draft.Bio,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User created: %s", user.Username)
	return user, nil
}

// ListUsers returns views of all users, attaching balances when asked to.
func (s *Service) ListUsers(includeBalance bool) ([]models.UserView, error) {
	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(users))
	for _, user := range users {
		view := user.View()
		if includeBalance {
			balance, err := s.Balance(user.ID)
			if err != nil {
				return nil, err
			}
			view.Balance = &balance
		}
		views = append(views, view)
	}
	return views, nil
}

// GetUser returns the view of a single user
func (s *Service) GetUser(username string) (models.UserView, error) {
	user, err := s.repo.FindUserByUsername(username)
	if err != nil {
		return models.UserView{}, err
	}
	return user.View(), nil
}

// ProfilePatch carries the mutable profile fields. Nil means "leave as is".
type ProfilePatch struct {
	Avatar *string `json:"avatar"`
	Bio    *string `json:"bio"`
}

// PatchProfile updates the user's avatar and bio
func (s *Service) PatchProfile(username string, patch ProfilePatch) (*models.User, error) {
	user, err := s.repo.FindUserByUsername(username)
	if err != nil {
		return nil, err
	}

	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}

	if err := s.repo.UpdateProfile(user); err != nil {
		return nil, err
	}

	s.log.Infof("Profile updated: %s", user.Username)
	return user, nil
}

// ChangePassword validates the confirmation and stores a new password hash
func (s *Service) ChangePassword(username, password, confirm string) (*models.User, error) {
	if password == "" || password != confirm {
		return nil, fmt.Errorf("passwords do not match: %w", models.ErrValidation)
	}

	user, err := s.repo.FindUserByUsername(username)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return nil, err
	}
	user.PasswordHash = string(hashedPassword)

	s.log.Infof("Password changed: %s", user.Username)
	return user, nil
}

// RequestPasswordReset starts the reset flow. It always succeeds from the
// caller's perspective: an unknown email is only logged, so registered
// addresses cannot be enumerated. Delivery happens in the background.
func (s *Service) RequestPasswordReset(emailAddr string) error {
	user, err := s.repo.FindUserByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.log.Warnf("Password reset requested for unknown email: %s", emailAddr)
			return nil
		}
		return err
	}

	go func() {
		if err := s.deliverPasswordReset(user); err != nil {
			s.log.Errorf("Failed to deliver password reset to %s: %v", user.Email, err)
		}
	}()
	return nil
}

func (s *Service) deliverPasswordReset(user *models.User) error {
	resetToken, err := s.tokens.IssueReset(user.Username)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(user.Email, user.Username, resetToken, s.tokens.ResetTTL()); err != nil {
		return err
	}
	s.log.Infof("Password reset email sent to %s", user.Email)
	return nil
}
