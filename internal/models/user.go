// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admins are created by promotion, never by signup.
const (
	RoleFarmer = "farmer"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// User represents a registered FarmIQ user.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"not null;default:farmer" json:"role"`
	Phone     string         `json:"phone"`
	State     string         `gorm:"index" json:"state"`
	District  string         `json:"district"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidRole reports whether role is one of the roles accepted at signup.
func ValidRole(role string) bool {
	return role == RoleFarmer || role == RoleVendor
}
