package auth

import "time"

// User represents a dealership staff account. BranchID is nil for accounts
// not yet assigned to a branch; such accounts cannot create quotations.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	BranchID     *int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
