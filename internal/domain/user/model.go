package user

import (
	"strings"
	"time"
)

// User is an account holder. Everything but the password hash is immutable
// after registration; accounts are never deleted in the normal flow.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName joins the name parts, falling back to the username when both
// are empty.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// Principal is the authenticated identity carried through request contexts.
type Principal struct {
	UserID   string
	Username string
	Email    string
}
