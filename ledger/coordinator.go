package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/centimehq/centime/events"
	"github.com/centimehq/centime/models"
)

// Coordinator guarantees the balance invariant across entry mutations: at any
// committed state an account's balance equals its initial balance plus the
// signed sum of all currently-existing entries referencing it. Every mutation
// runs as one unit of work under the account's row lock; concurrent mutations
// against the same account serialize through that lock.
//
// The Coordinator is stateless between calls, all state lives in the Store.
type Coordinator struct {
	store  Store
	events events.Publisher
	log    *logrus.Logger
}

func NewCoordinator(store Store, publisher events.Publisher, log *logrus.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		events: publisher,
		log:    log,
	}
}

type CreateEntryParams struct {
	UserID      uint64
	AccountID   uint64
	CategoryID  *uint64
	Kind        models.TransactionKind
	Amount      decimal.Decimal
	TxnDate     time.Time
	Description *string
}

// UpdateEntryParams carries PATCH semantics: a nil (or invalid NullDecimal)
// field keeps the entry's previous value. AccountID must match the entry's
// stored account, cross-account moves are rejected.
type UpdateEntryParams struct {
	ID          uint64
	UserID      uint64
	AccountID   uint64
	Kind        *models.TransactionKind
	Amount      decimal.NullDecimal
	CategoryID  *uint64
	TxnDate     *time.Time
	Description *string
}

// CreateEntry inserts a new ledger entry and applies its delta to the locked
// account row, atomically. On any failure nothing is observed.
func (c *Coordinator) CreateEntry(ctx context.Context, params CreateEntryParams) (*models.Transaction, error) {
	delta, err := DeltaOf(params.Kind, params.Amount)
	if err != nil {
		return nil, err
	}

	entry := &models.Transaction{
		UserID:    params.UserID,
		AccountID: params.AccountID,
		Kind:      params.Kind,
		Amount:    params.Amount,
		TxnDate:   params.TxnDate,
	}
	if params.CategoryID != nil {
		entry.CategoryID = sql.NullInt64{Int64: int64(*params.CategoryID), Valid: true}
	}
	if params.Description != nil {
		entry.Description = sql.NullString{String: *params.Description, Valid: true}
	}

	var balance decimal.Decimal

	err = c.inUnitOfWork(ctx, func(h Handle) error {
		account, err := h.LockAccountForUpdate(params.AccountID)
		if err != nil {
			return err
		}

		if account.UserID != params.UserID {
			return ErrNotFound
		}

		if err := h.InsertEntry(entry); err != nil {
			return err
		}

		balance = account.Balance.Add(delta)

		return h.WriteAccountBalance(account.ID, balance)
	})

	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"entry_id":   entry.ID,
		"account_id": entry.AccountID,
	}).Debug("ledger: entry created")

	c.publish(events.EntryCreated, entry, balance)

	return entry, nil
}

// UpdateEntry reverses the entry's old contribution, merges the patch fields
// and applies the new contribution, all under one lock. The net balance
// effect equals newDelta - oldDelta, applied exactly once, regardless of how
// many fields changed.
func (c *Coordinator) UpdateEntry(ctx context.Context, params UpdateEntryParams) (*models.Transaction, error) {
	if params.Kind != nil && !params.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if params.Amount.Valid && !params.Amount.Decimal.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var merged *models.Transaction
	var balance decimal.Decimal

	err := c.inUnitOfWork(ctx, func(h Handle) error {
		existing, err := h.FindEntry(params.ID)
		if err != nil {
			return err
		}

		if existing.UserID != params.UserID {
			return ErrForbidden
		}

		if existing.AccountID != params.AccountID {
			return ErrUnsupportedOperation
		}

		// The account id is immutable, so the pre-lock read only routes
		// the lock; kind and amount are re-read under it.
		account, err := h.LockAccountForUpdate(existing.AccountID)
		if err != nil {
			return err
		}

		existing, err = h.FindEntry(params.ID)
		if err != nil {
			return err
		}

		oldDelta, err := DeltaOf(existing.Kind, existing.Amount)
		if err != nil {
			return err
		}

		balance = account.Balance.Add(InverseOf(oldDelta))

		if err := h.WriteAccountBalance(account.ID, balance); err != nil {
			return err
		}

		next := *existing
		if params.Kind != nil {
			next.Kind = *params.Kind
		}
		if params.Amount.Valid {
			next.Amount = params.Amount.Decimal
		}
		if params.CategoryID != nil {
			next.CategoryID = sql.NullInt64{Int64: int64(*params.CategoryID), Valid: true}
		}
		if params.TxnDate != nil {
			next.TxnDate = *params.TxnDate
		}
		if params.Description != nil {
			next.Description = sql.NullString{String: *params.Description, Valid: true}
		}

		newDelta, err := DeltaOf(next.Kind, next.Amount)
		if err != nil {
			return err
		}

		balance = balance.Add(newDelta)

		if err := h.WriteAccountBalance(account.ID, balance); err != nil {
			return err
		}

		if err := h.ReplaceEntry(&next); err != nil {
			return err
		}

		merged = &next

		return nil
	})

	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"entry_id":   merged.ID,
		"account_id": merged.AccountID,
	}).Debug("ledger: entry updated")

	c.publish(events.EntryUpdated, merged, balance)

	return merged, nil
}

// DeleteEntry reverses the entry's contribution and removes the row,
// atomically.
func (c *Coordinator) DeleteEntry(ctx context.Context, id uint64) error {
	var removed *models.Transaction
	var balance decimal.Decimal

	err := c.inUnitOfWork(ctx, func(h Handle) error {
		existing, err := h.FindEntry(id)
		if err != nil {
			return err
		}

		account, err := h.LockAccountForUpdate(existing.AccountID)
		if err != nil {
			return err
		}

		existing, err = h.FindEntry(id)
		if err != nil {
			return err
		}

		delta, err := DeltaOf(existing.Kind, existing.Amount)
		if err != nil {
			return err
		}

		balance = account.Balance.Add(InverseOf(delta))

		if err := h.WriteAccountBalance(account.ID, balance); err != nil {
			return err
		}

		if err := h.RemoveEntry(id); err != nil {
			return err
		}

		removed = existing

		return nil
	})

	if err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"entry_id":   removed.ID,
		"account_id": removed.AccountID,
	}).Debug("ledger: entry deleted")

	c.publish(events.EntryDeleted, removed, balance)

	return nil
}

// inUnitOfWork opens a unit of work and guarantees exactly one of Commit or
// Abort on every exit path.
func (c *Coordinator) inUnitOfWork(ctx context.Context, fn func(Handle) error) error {
	h, err := c.store.BeginUnitOfWork(ctx)
	if err != nil {
		return storeFailure(err)
	}

	if err := fn(h); err != nil {
		if abortErr := h.Abort(); abortErr != nil {
			c.log.WithError(abortErr).Warn("ledger: abort failed")
		}
		return err
	}

	if err := h.Commit(); err != nil {
		return storeFailure(err)
	}

	return nil
}

// publish runs strictly after commit, never inside the unit of work. A
// failed publish is logged and dropped.
func (c *Coordinator) publish(event string, entry *models.Transaction, balance decimal.Decimal) {
	if err := c.events.Publish(event, events.EntryPayload{
		EntryID:   entry.ID,
		UserID:    entry.UserID,
		AccountID: entry.AccountID,
		Kind:      entry.Kind,
		Amount:    entry.Amount,
		TxnDate:   entry.TxnDate,
	}); err != nil {
		c.log.WithError(err).Warn("ledger: event publish failed")
	}

	if err := c.events.Publish(events.BalanceChanged, events.BalancePayload{
		AccountID: entry.AccountID,
		UserID:    entry.UserID,
		Balance:   balance,
	}); err != nil {
		c.log.WithError(err).Warn("ledger: event publish failed")
	}
}
