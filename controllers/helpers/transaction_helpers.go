package helpers

import (
	"time"

	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
)

type CreateTransactionParams struct {
	AccountID   uint64                 `json:"account_id" form:"account_id" validate:"required"`
	CategoryID  *uint64                `json:"category_id" form:"category_id"`
	Kind        models.TransactionKind `json:"kind" form:"kind" validate:"required|ValidateKind"`
	Amount      decimal.Decimal        `json:"amount" form:"amount" validate:"ValidateAmount"`
	TxnDate     string                 `json:"txn_date" form:"txn_date" validate:"required|ValidateTxnDate"`
	Description *string                `json:"description" form:"description"`
}

func (p CreateTransactionParams) Messages() map[string]string {
	return validate.MS{
		"required":        "account.transaction.missing_{field}",
		"ValidateKind":    "account.transaction.invalid_kind",
		"ValidateAmount":  "account.transaction.non_positive_amount",
		"ValidateTxnDate": "account.transaction.invalid_txn_date",
	}
}

func (p CreateTransactionParams) ValidateKind(Kind models.TransactionKind) bool {
	return Kind.Valid()
}

func (p CreateTransactionParams) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

func (p CreateTransactionParams) ValidateTxnDate(TxnDate string) bool {
	_, err := time.Parse(DateLayout, TxnDate)

	return err == nil
}

func (p CreateTransactionParams) LedgerParams(user *models.User) ledger.CreateEntryParams {
	txnDate, _ := time.Parse(DateLayout, p.TxnDate)

	return ledger.CreateEntryParams{
		UserID:      user.ID,
		AccountID:   p.AccountID,
		CategoryID:  p.CategoryID,
		Kind:        p.Kind,
		Amount:      p.Amount,
		TxnDate:     txnDate,
		Description: p.Description,
	}
}

type UpdateTransactionParams struct {
	AccountID   uint64                  `json:"account_id" form:"account_id" validate:"required"`
	CategoryID  *uint64                 `json:"category_id" form:"category_id"`
	Kind        *models.TransactionKind `json:"kind" form:"kind" validate:"ValidateKind"`
	Amount      decimal.NullDecimal     `json:"amount" form:"amount" validate:"ValidateAmount"`
	TxnDate     *string                 `json:"txn_date" form:"txn_date" validate:"ValidateTxnDate"`
	Description *string                 `json:"description" form:"description"`
}

func (p UpdateTransactionParams) Messages() map[string]string {
	return validate.MS{
		"required":        "account.transaction.missing_{field}",
		"ValidateKind":    "account.transaction.invalid_kind",
		"ValidateAmount":  "account.transaction.non_positive_amount",
		"ValidateTxnDate": "account.transaction.invalid_txn_date",
	}
}

func (p UpdateTransactionParams) ValidateKind(Kind *models.TransactionKind) bool {
	if Kind == nil {
		return true
	}

	return Kind.Valid()
}

func (p UpdateTransactionParams) ValidateAmount(Amount decimal.NullDecimal) bool {
	if !Amount.Valid {
		return true
	}

	return Amount.Decimal.IsPositive()
}

func (p UpdateTransactionParams) ValidateTxnDate(TxnDate *string) bool {
	if TxnDate == nil {
		return true
	}

	_, err := time.Parse(DateLayout, *TxnDate)

	return err == nil
}

func (p UpdateTransactionParams) LedgerParams(id uint64, user *models.User) ledger.UpdateEntryParams {
	params := ledger.UpdateEntryParams{
		ID:          id,
		UserID:      user.ID,
		AccountID:   p.AccountID,
		Kind:        p.Kind,
		Amount:      p.Amount,
		CategoryID:  p.CategoryID,
		Description: p.Description,
	}

	if p.TxnDate != nil {
		if txnDate, err := time.Parse(DateLayout, *p.TxnDate); err == nil {
			params.TxnDate = &txnDate
		}
	}

	return params
}
