package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dundie/rewards-service/internal/models"
	"github.com/lib/pq"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, username, name, dept, currency, avatar, bio, password_hash, created_at, updated_at`

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO dundie.users (email, username, name, dept, currency, avatar, bio, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		user.Email, user.Username, user.Name, user.Dept, user.Currency,
		nullable(user.Avatar), nullable(user.Bio), user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %q: %w", user.Username, models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM dundie.users
		WHERE username = $1`
	return r.findUser(query, username)
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM dundie.users
		WHERE email = $1`
	return r.findUser(query, email)
}

func (r *Repository) findUser(query string, arg interface{}) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all users ordered by id
func (r *Repository) ListUsers() ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM dundie.users
		ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile persists the user's avatar and bio
func (r *Repository) UpdateProfile(user *models.User) error {
	query := `
		UPDATE dundie.users
		SET avatar = $1, bio = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING updated_at`
	err := r.db.QueryRow(query, nullable(user.Avatar), nullable(user.Bio), user.ID).
		Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash for the user
func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	query := `
		UPDATE dundie.users
		SET password_hash = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`
	res, err := r.db.Exec(query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	return nil
}

// CreateTransaction appends a ledger entry. Entries are never updated or
// deleted afterwards.
func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	query := `
		INSERT INTO dundie.transactions (from_user_id, to_user_id, value, date)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, date`
	err := r.db.QueryRow(query, tx.FromUserID, tx.ToUserID, tx.Value).
		Scan(&tx.ID, &tx.Date)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// TransactionsInvolving returns every ledger entry where the user is sender
// or recipient, ordered by creation time ascending.
func (r *Repository) TransactionsInvolving(userID int64) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.value, t.date, t.from_user_id, t.to_user_id, f.username, u.username
		FROM dundie.transactions t
		JOIN dundie.users f ON f.id = t.from_user_id
		JOIN dundie.users u ON u.id = t.to_user_id
		WHERE t.from_user_id = $1 OR t.to_user_id = $1
		ORDER BY t.date, t.id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Value, &tx.Date, &tx.FromUserID, &tx.ToUserID, &tx.FromUser, &tx.ToUser); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func scanUser(row interface{ Scan(dest ...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var avatar, bio sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.Name, &user.Dept,
		&user.Currency, &avatar, &bio, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Avatar = avatar.String
	user.Bio = bio.String
	return user, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (class 23505), so it can surface as a Conflict instead of a raw
// storage error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
