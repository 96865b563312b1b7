package models

import "database/sql"

// User is a registered account
type User struct {
	ID           int64          `json:"id" db:"id"`
	Username     string         `json:"username" db:"username"`
	PasswordHash string         `json:"-" db:"password"`
	Name         string         `json:"name" db:"name"`
	Email        sql.NullString `json:"email" db:"email"`
	Phone        sql.NullString `json:"phone" db:"phone"`
}

// Identity is what a successful login hands to the caller
type Identity struct {
	UserID    int64  `json:"user_id"`
	ProfileID *int64 `json:"profile_id,omitempty"`
	Username  string `json:"username"`
	Name      string `json:"name"`
}
