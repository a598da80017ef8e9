package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;not null"`
	Password     string   `gorm:"not null" json:"-"`
	FirstName    string   `gorm:"not null"`
	LastName     string   `gorm:"not null"`
	Status       string   `gorm:"default:'active'"`
	TokenVersion int      `gorm:"default:1"`
	Account      *Account `gorm:"foreignKey:OwnerID"`
}

// CreateUserInput is the registration request body.
type CreateUserInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateUserInput is the partial profile update body. Empty fields
// are left untouched.
type UpdateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// UserSummary is the public projection returned by the search endpoint.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
