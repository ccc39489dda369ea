package auth

import "time"

// User represents an authenticated user account. Every user belongs to
// exactly one company, the tenant scope carried into the session.
type User struct {
	ID           int64
	CompanyID    int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
