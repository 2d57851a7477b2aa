package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized into responses.
type User struct {
	UserID       string    `badgerhold:"key" json:"user_id"`
	Email        string    `badgerholdIndex:"Email" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
