package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/models"
)

const (
	EntryCreated   = "entry.created"
	EntryUpdated   = "entry.updated"
	EntryDeleted   = "entry.deleted"
	BalanceChanged = "balance.changed"
)

// Publisher delivers domain events after a unit of work has committed.
// Delivery is fire-and-forget; the ledger never depends on it.
type Publisher interface {
	Publish(event string, payload interface{}) error
}

type EntryPayload struct {
	EntryID   uint64                 `json:"entry_id"`
	UserID    uint64                 `json:"user_id"`
	AccountID uint64                 `json:"account_id"`
	Kind      models.TransactionKind `json:"kind"`
	Amount    decimal.Decimal        `json:"amount"`
	TxnDate   time.Time              `json:"txn_date"`
}

type BalancePayload struct {
	AccountID uint64          `json:"account_id"`
	UserID    uint64          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// NopPublisher drops every event. Used in tests and when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(event string, payload interface{}) error {
	return nil
}
