package model

import "time"

// User is a registered author account. Email is the login identity and is
// matched exactly as stored.
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email          string    `gorm:"type:varchar(191);uniqueIndex:ux_users_email;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(191);not null" json:"-"`
	FullName       string    `gorm:"type:varchar(191)" json:"full_name"`
	CreatedAt      time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
