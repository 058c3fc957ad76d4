// Package auth holds the built-in user accounts.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"billing-service/pkg/config"
)

// Role names
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an account that can sign in
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`

	passwordHash []byte
}

// Credential is a plain-text account definition
type Credential struct {
	Username string
	Name     string
	Password string
	Role     string
}

// CredentialTable is a fixed set of accounts with bcrypt-hashed passwords
type CredentialTable struct {
	users map[string]User
}

// NewCredentialTable hashes the passwords of creds. Usernames are matched case-insensitively.
func NewCredentialTable(creds ...Credential) (*CredentialTable, error) {
	t := &CredentialTable{users: make(map[string]User, len(creds))}
	for _, c := range creds {
		key := strings.ToLower(strings.TrimSpace(c.Username))
		if key == "" || c.Password == "" {
			return nil, fmt.Errorf("credential for role %q needs a username and password", c.Role)
		}
		if c.Role != RoleOwner && c.Role != RoleStaff {
			return nil, fmt.Errorf("unknown role %q for %s", c.Role, c.Username)
		}
		if _, dup := t.users[key]; dup {
			return nil, fmt.Errorf("duplicate username %q", c.Username)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", c.Username, err)
		}
		name := c.Name
		if name == "" {
			name = c.Username
		}
		t.users[key] = User{Username: c.Username, Name: name, Role: c.Role, passwordHash: hash}
	}
	return t, nil
}

// FromConfig builds the owner and staff accounts from cfg
func FromConfig(cfg config.AuthConfig) (*CredentialTable, error) {
	return NewCredentialTable(
		Credential{Username: cfg.OwnerUsername, Password: cfg.OwnerPassword, Role: RoleOwner},
		Credential{Username: cfg.StaffUsername, Password: cfg.StaffPassword, Role: RoleStaff},
	)
}

// Authenticate returns the user when username and password match
func (t *CredentialTable) Authenticate(username, password string) (User, error) {
	u, ok := t.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
