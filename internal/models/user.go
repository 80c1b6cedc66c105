package models

import "strings"

// ManagementDept is the department whose members get superuser privileges.
const ManagementDept = "management"

// User represents a user in the system
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Dept         string `json:"dept"`
	Currency     string `json:"currency"`
	Avatar       string `json:"avatar,omitempty"`
	Bio          string `json:"bio,omitempty"`
	PasswordHash string `json:"-"` // Not serialized
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Superuser reports whether the user belongs to the management department.
// Derived from Dept on every call, never stored.
func (u *User) Superuser() bool {
	return u.Dept == ManagementDept
}

var usernameReplacer = strings.NewReplacer(" ", "-", "_", "-")

// GenerateUsername derives a username slug from a display name:
// lowercase, spaces and underscores replaced with hyphens.
func GenerateUsername(name string) string {
	return usernameReplacer.Replace(strings.ToLower(name))
}

// UserView is the outward representation of a user. Balance is attached
// only when the caller asked for it, so it stays a pointer.
type UserView struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Dept     string `json:"dept"`
	Currency string `json:"currency"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Balance  *int64 `json:"balance,omitempty"`
}

// View builds the outward representation of the user.
func (u *User) View() UserView {
	return UserView{
		Username: u.Username,
		Name:     u.Name,
		Dept:     u.Dept,
		Currency: u.Currency,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
	}
}
