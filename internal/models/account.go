package models

import (
	"time"
)

// Account holds one user's balance. Created at registration, mutated
// only through the transfer engine. Balance never goes below zero;
// Version increments on every balance write.
type Account struct {
	ID        uint    `gorm:"primarykey"`
	OwnerID   uint    `gorm:"uniqueIndex;not null"`
	Balance   float64 `gorm:"not null;default:0"`
	Version   uint64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
