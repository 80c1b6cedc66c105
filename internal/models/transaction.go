package models

import "time"

// Transaction represents a point transfer between two users. Entries are
// append-only: once created they are never mutated or deleted.
type Transaction struct {
	ID         int64     `json:"id"`
	Value      int64     `json:"value"`
	Date       time.Time `json:"date"`
	FromUserID int64     `json:"-"`
	ToUserID   int64     `json:"-"`
	FromUser   string    `json:"from_user"`
	ToUser     string    `json:"to_user"`
}
