package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

var (
	KindExpense TransactionKind = "EXPENSE"
	KindIncome  TransactionKind = "INCOME"
)

func (k TransactionKind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Transaction is a single ledger entry against one account. AccountID is
// immutable after creation; moving an entry between accounts is unsupported.
type Transaction struct {
	ID          uint64          `json:"id" gorm:"primaryKey"`
	UserID      uint64          `json:"user_id" gorm:"index"`
	AccountID   uint64          `json:"account_id" gorm:"index"`
	CategoryID  sql.NullInt64   `json:"category_id"`
	Kind        TransactionKind `json:"kind" validate:"ValidateKind"`
	Amount      decimal.Decimal `json:"amount" validate:"ValidateAmount"`
	TxnDate     time.Time       `json:"txn_date"`
	Description sql.NullString  `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t Transaction) ValidateKind(Kind TransactionKind) bool {
	return Kind.Valid()
}

func (t Transaction) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}
