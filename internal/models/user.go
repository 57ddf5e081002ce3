package models

import (
	"time"
)

type Role string

const (
	RoleReader Role = "reader"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password_hash;size:255;not null" json:"-"` // Hash
	Name      string    `gorm:"size:100;not null" json:"name"`
	Role      Role      `gorm:"size:20;default:'reader';not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	// Never updated or deleted
}

// IsAdmin reports whether the user may author, edit and delete posts.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
