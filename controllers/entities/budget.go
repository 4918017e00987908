package entities

import (
	"github.com/shopspring/decimal"
)

// BudgetProgressEntity is the point-in-time snapshot a budget reads from the
// ledger: planned vs spent per category for the budget's month.
type BudgetProgressEntity struct {
	BudgetID uint64               `json:"budget_id"`
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
	Items    []BudgetProgressItem `json:"items"`
}

type BudgetProgressItem struct {
	CategoryID uint64          `json:"category_id"`
	Planned    decimal.Decimal `json:"planned"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}
