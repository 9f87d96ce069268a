// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and the public gallery identity.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex:uq_users_email;size:255;not null"`

	// Username is the public handle shown next to the user's frames.
	// It must be unique across all users.
	Username string `gorm:"uniqueIndex:uq_users_username;size:64;not null"`

	// Password is the hashed password for the user.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// DisplayName is an optional free-form name. It is the only identity
	// field that may change after registration.
	DisplayName string `gorm:"size:255"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
