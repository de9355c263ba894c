package domain

import (
	"context"
	"time"
)

// User is the slice of a user account this service reads. Accounts are managed elsewhere.
// swagger:model User
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Principal is the identity extracted from a verified token.
type Principal struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the principal carries role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// TokenIssuer signs tokens for a principal. Used by tooling and tests; the
// service itself only verifies tokens.
type TokenIssuer interface {
	Issue(userID string, roles []string, expiry time.Duration) (string, error)
}

// UserRepository defines read access to user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
