package models

import "time"

// Admin is the single administrator account. It is created at bootstrap and
// never through the API.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName specifies the table name for Admin model
func (Admin) TableName() string {
	return "admins"
}
