package domain

import "time"

// User is a registered administrator. Usernames are unique.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
}
