// models/user.go
package models

import (
	"time"
)

// User is an account holder. TokenIdentifier is the opaque identity issued by
// the identity provider (or generated locally for password and guest accounts).
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TokenIdentifier string    `gorm:"uniqueIndex;not null;size:255" json:"-"`
	Username        string    `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Email           *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Name            string    `gorm:"size:200" json:"name"`
	GivenName       string    `gorm:"size:100" json:"given_name"`
	Password        string    `json:"-"`
	IsGuest         bool      `gorm:"default:false" json:"is_guest"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	LastLogin       time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}
