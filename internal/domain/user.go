package domain

import "time"

// User is the persisted account record. Email is stored lowercased and is
// unique across all rows regardless of Active. PasswordHash is a bcrypt
// hash; the raw password never reaches storage or any response.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	BirthDate    time.Time
	Phone        *string
	Active       bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}
