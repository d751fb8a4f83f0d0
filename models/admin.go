package models

import "time"

// Admin represents an administrator account able to manage content.
type Admin struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminSession is a bearer-token session row. Tokens are opaque 256-bit hex
// strings; a session is live while expires_at is in the future.
type AdminSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AdminID   uint      `json:"adminId" gorm:"index;not null"`
	Admin     Admin     `json:"-" gorm:"foreignKey:AdminID"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (AdminSession) TableName() string {
	return "admin_sessions"
}
