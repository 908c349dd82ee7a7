package model

import "time"

// User represents a user in the database.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserInput holds the fields needed to create a user. The password is
// already hashed.
type UserInput struct {
	Email        string
	PasswordHash string
	Name         string
}

// UserPatch lists the fields to change on a user.
type UserPatch struct {
	Email        *string
	Name         *string
	PasswordHash *string
}

// Apply writes the patch onto u.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}
