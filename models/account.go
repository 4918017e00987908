package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountKind string

var (
	AccountKindChecking AccountKind = "checking"
	AccountKindSavings  AccountKind = "savings"
	AccountKindCash     AccountKind = "cash"
	AccountKindCard     AccountKind = "card"
)

func (k AccountKind) Valid() bool {
	switch k {
	case AccountKindChecking, AccountKindSavings, AccountKindCash, AccountKindCard:
		return true
	}

	return false
}

// Account is the aggregate root for balance purposes. Balance is the
// authoritative running balance and is written only by ledger.Coordinator;
// every other write path (metadata edits, archiving) must leave it untouched.
type Account struct {
	ID             uint64          `json:"id" gorm:"primaryKey"`
	UserID         uint64          `json:"user_id" gorm:"index"`
	Name           string          `json:"name" validate:"required"`
	Kind           AccountKind     `json:"kind" validate:"ValidateKind"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance" gorm:"default:0.0"`
	Balance        decimal.Decimal `json:"balance" gorm:"default:0.0"`
	Archived       bool            `json:"archived" gorm:"default:false"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (a Account) ValidateKind(Kind AccountKind) bool {
	return Kind.Valid()
}

// NormalizeCurrency upcases a 3-letter ISO code and falls back to the
// configured default when the input is absent or malformed.
func NormalizeCurrency(code string, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	if len(code) != 3 {
		return fallback
	}

	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fallback
		}
	}

	return code
}
