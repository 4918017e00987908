package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/models"
)

type TransactionEntity struct {
	ID          uint64                 `json:"id"`
	AccountID   uint64                 `json:"account_id"`
	CategoryID  *uint64                `json:"category_id"`
	Kind        models.TransactionKind `json:"kind"`
	Amount      decimal.Decimal        `json:"amount"`
	TxnDate     string                 `json:"txn_date"`
	Description *string                `json:"description"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func TransactionToEntity(t *models.Transaction) TransactionEntity {
	entity := TransactionEntity{
		ID:        t.ID,
		AccountID: t.AccountID,
		Kind:      t.Kind,
		Amount:    t.Amount,
		TxnDate:   t.TxnDate.Format("2006-01-02"),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}

	if t.CategoryID.Valid {
		categoryID := uint64(t.CategoryID.Int64)
		entity.CategoryID = &categoryID
	}
	if t.Description.Valid {
		description := t.Description.String
		entity.Description = &description
	}

	return entity
}
