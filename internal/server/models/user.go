package models

import "time"

// User is a stored identity record. PasswordHash holds the bcrypt hash of
// the password; plaintext is never persisted.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	FullName     string
	IsActive     bool
	CreatedAt    time.Time
}
