package models

import (
	"time"
)

type User struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	UID       string    `json:"uid" gorm:"uniqueIndex"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
