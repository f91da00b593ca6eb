package model

import "fmt"

// A Role is the closed set of account roles.
type Role string

const (
	// RoleAdmin can manage accounts and every content item.
	RoleAdmin Role = "admin"
	// RoleUser can manage its own content items.
	RoleUser Role = "user"
)

// ParseRole returns the role matching the given name.
func ParseRole(name string) (Role, error) {
	switch r := Role(name); r {
	case RoleAdmin, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", name)
	}
}

// An Account represents a database record.
// The email is the primary key and credentials are never updated in place.
type Account struct {
	Email      string `msgpack:"email"    storm:"id"`
	Role       Role   `msgpack:"role"     storm:"index"`
	Salt       string `msgpack:"salt"`
	Password   string `msgpack:"password"`
	Timestamps `msgpack:",inline" storm:"inline"`
}

// NewAccount returns a new account with default params.
func NewAccount(email string) *Account {
	return &Account{
		Email: email,
		Role:  RoleUser,
	}
}

// GetID returns the account's email.
func (a *Account) GetID() string {
	return a.Email
}

// SetID defines the account's email.
func (a *Account) SetID(email string) {
	a.Email = email
}

// A Caller is the identity resolved for the current request.
// It is never persisted.
type Caller struct {
	ID   string
	Role Role
	Site string
}

// IsAdmin returns true if the caller has the admin role.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
