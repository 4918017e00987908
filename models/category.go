package models

import (
	"time"
)

type Category struct {
	ID        uint64          `json:"id" gorm:"primaryKey"`
	UserID    uint64          `json:"user_id" gorm:"index"`
	Name      string          `json:"name" validate:"required"`
	Kind      TransactionKind `json:"kind" validate:"ValidateKind"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (c Category) ValidateKind(Kind TransactionKind) bool {
	return Kind.Valid()
}
