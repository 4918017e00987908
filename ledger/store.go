package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/models"
)

// Store is the durable-store contract consumed by the Coordinator. An
// implementation must provide all-or-nothing multi-statement units of work
// with at least read-committed isolation and row-level update locking on
// account rows.
type Store interface {
	BeginUnitOfWork(ctx context.Context) (Handle, error)
}

// EntryRepository owns persistence of individual ledger entries. It holds no
// commit boundary of its own: every call participates in the transaction of
// the Handle it is reached through.
type EntryRepository interface {
	// InsertEntry persists a new entry and assigns its id and timestamps.
	// Returns ErrConstraintViolation when the referenced category does not
	// belong to the entry's user.
	InsertEntry(entry *models.Transaction) error

	// FindEntry returns ErrNotFound for an absent id.
	FindEntry(id uint64) (*models.Transaction, error)

	// ReplaceEntry overwrites all mutable fields of an existing entry.
	ReplaceEntry(entry *models.Transaction) error

	// RemoveEntry returns ErrNotFound for an absent id.
	RemoveEntry(id uint64) error
}

// Handle is one open unit of work. Exactly one of Commit or Abort must be
// called on every exit path.
type Handle interface {
	EntryRepository

	// LockAccountForUpdate acquires the row-level update lock on an
	// account and returns its current committed state. Returns
	// ErrNotFound for an absent id and ErrContention when the lock
	// cannot be obtained within the store's timeout.
	LockAccountForUpdate(id uint64) (*models.Account, error)

	// WriteAccountBalance overwrites the balance of a previously locked
	// account row.
	WriteAccountBalance(id uint64, balance decimal.Decimal) error

	Commit() error
	Abort() error
}
