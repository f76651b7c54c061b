package model

import "time"

// User is an account holder. Password stores the bcrypt hash and is never
// serialized into responses.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
