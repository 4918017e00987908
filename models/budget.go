package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget holds the planned amounts for one (user, year, month). Budgets only
// read point-in-time snapshots of the ledger, they never maintain derived
// state of their own.
type Budget struct {
	ID        uint64       `json:"id" gorm:"primaryKey"`
	UserID    uint64       `json:"user_id" gorm:"index:idx_budgets_user_period,unique"`
	Year      int          `json:"year" gorm:"index:idx_budgets_user_period,unique"`
	Month     int          `json:"month" gorm:"index:idx_budgets_user_period,unique" validate:"ValidateMonth"`
	Items     []BudgetItem `json:"items" gorm:"foreignKey:BudgetID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (b Budget) ValidateMonth(Month int) bool {
	return Month >= 1 && Month <= 12
}

type BudgetItem struct {
	ID         uint64          `json:"id" gorm:"primaryKey"`
	BudgetID   uint64          `json:"budget_id" gorm:"index"`
	CategoryID uint64          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount" validate:"ValidateAmount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (i BudgetItem) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}
