package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles a user account can hold. The zero value of a freshly registered
// account is RoleUser; elevated roles are assigned out of band.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleMember = "member"
)

// User represents a platform account used for authentication and content
// ownership.
//
// Password is a transient, JSON-in-only field: it carries the plaintext
// password from a registration or reset request into the service layer and
// is never persisted. HashedPassword holds the bcrypt hash and is never
// serialized. The invariant is that the hash is computed exactly once per
// password change via [User.SetPassword].
type User struct {
	// UserID is the unique identifier of the user (UUID).
	UserID string `json:"user_id"`

	// Email is the unique, lowercased account email.
	Email string `json:"email"`

	// Name is the display name shown next to the user's content.
	Name string `json:"name"`

	// Password is the plaintext password supplied on registration or reset.
	// Never stored; cleared as soon as the hash is computed.
	Password string `json:"password,omitempty"`

	// HashedPassword is the bcrypt hash of the password.
	HashedPassword string `json:"-"`

	// Role is one of RoleUser, RoleAdmin, RoleEditor, RoleMember.
	Role string `json:"role"`

	// IsVerified reports whether the account's email has been confirmed.
	IsVerified bool `json:"is_verified"`

	// UserIcon is an optional profile icon URL.
	UserIcon string `json:"user_icon,omitempty"`

	// Subscriptions lists content categories the user follows.
	Subscriptions []string `json:"subscriptions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes plaintext with bcrypt and stores the result in
// HashedPassword, clearing the transient Password field.
func (u *User) SetPassword(plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.HashedPassword = string(hashed)
	u.Password = ""
	return nil
}

// ComparePassword reports whether candidate matches the stored bcrypt hash.
func (u *User) ComparePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(candidate)) == nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
