package model

import (
	"time"
)

// User is the persistence-backed representation of an account. PasswordHash
// never leaves this package through a DTO; the unique index on email is the
// authoritative guard behind the service-level uniqueness probe.
type User struct {
	UserID            uint      `gorm:"column:user_id;primaryKey"`
	FirstName         string    `gorm:"column:first_name;not null"`
	LastName          string    `gorm:"column:last_name;not null"`
	Email             string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash      string    `gorm:"column:password_hash;not null"`
	RoleID            uint      `gorm:"column:role_id;not null"`
	TeamID            *uint     `gorm:"column:team_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
	LastTokenIssuedAt time.Time `gorm:"column:last_token_issued_at"`
}

func (User) TableName() string {
	return "users"
}
