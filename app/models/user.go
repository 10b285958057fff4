package models

import "time"

const RoleAdmin = "admin"

// User is an account allowed to sign in to the admin API.
type User struct {
	ID        uint      `gorm:"primaryKey"                     json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null"  json:"username"`
	Password  string    `gorm:"size:255;not null"              json:"-"`
	Role      string    `gorm:"size:50;not null;default:admin" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
