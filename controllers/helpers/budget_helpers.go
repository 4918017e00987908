package helpers

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
)

type CreateBudgetParams struct {
	Year  int                 `json:"year" form:"year" validate:"required|min:2000"`
	Month int                 `json:"month" form:"month" validate:"required|min:1|max:12"`
	Items []BudgetItemPayload `json:"items" form:"items"`
}

type BudgetItemPayload struct {
	CategoryID uint64          `json:"category_id" form:"category_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" form:"amount" validate:"ValidateAmount"`
}

func (p BudgetItemPayload) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

func (p CreateBudgetParams) Messages() map[string]string {
	return validate.MS{
		"required": "budget.missing_{field}",
		"min":      "budget.invalid_{field}",
		"max":      "budget.invalid_{field}",
	}
}

type UpdateBudgetParams struct {
	Year  *int `json:"year" form:"year"`
	Month *int `json:"month" form:"month" validate:"ValidateMonth"`
}

func (p UpdateBudgetParams) Messages() map[string]string {
	return validate.MS{
		"ValidateMonth": "budget.invalid_month",
	}
}

func (p UpdateBudgetParams) ValidateMonth(Month *int) bool {
	if Month == nil {
		return true
	}

	return *Month >= 1 && *Month <= 12
}

type BudgetItemParams struct {
	CategoryID uint64          `json:"category_id" form:"category_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" form:"amount" validate:"ValidateAmount"`
}

func (p BudgetItemParams) Messages() map[string]string {
	return validate.MS{
		"required":       "budget.item.missing_{field}",
		"ValidateAmount": "budget.item.non_positive_amount",
	}
}

func (p BudgetItemParams) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}
