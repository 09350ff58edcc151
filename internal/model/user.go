// Package model defines domain entities for the application.
package model

import "time"

// Column bounds shared by the schema validator and the SQL migrations.
const (
	MaxUserNameLength = 120
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User is a registered account that owns ads.
// PasswordHash never leaves the service layer; it is excluded from JSON so
// cached copies cannot carry it either.
type User struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	RegistrationTime time.Time `json:"registration_time"`
}

// UserPatch holds the optional fields of a user update.
// A nil field is left untouched.
type UserPatch struct {
	Name         *string
	PasswordHash *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.PasswordHash == nil
}

// Apply copies the present fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}
