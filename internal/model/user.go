package model

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	FullName     string    `gorm:"size:128" json:"full_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AllModels lists every table managed by AutoMigrate, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Document{},
		&ChatSession{},
		&ChatMessage{},
		&ChatAttachment{},
		&Language{},
		&Lawyer{},
		&Review{},
	}
}
