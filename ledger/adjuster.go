package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/models"
)

// DeltaOf computes the signed contribution an entry makes to its account's
// balance: +amount for INCOME, -amount for EXPENSE. Pure, stateless, safe to
// call unsynchronized.
func DeltaOf(kind models.TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	switch kind {
	case models.KindIncome:
		return amount, nil
	case models.KindExpense:
		return amount.Neg(), nil
	default:
		return decimal.Zero, ErrInvalidKind
	}
}

// InverseOf returns the additive inverse of a delta, used to undo a
// previously applied entry.
func InverseOf(delta decimal.Decimal) decimal.Decimal {
	return delta.Neg()
}
