// Package memory implements the ledger store contract in process. Account
// row locks map to one mutex per account record; writes are staged on the
// handle and applied on Commit, so an aborted unit of work leaves no trace.
// Reads always see committed state.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
)

type accountRecord struct {
	mu      sync.Mutex
	account models.Account
}

type Store struct {
	mu         sync.RWMutex
	accounts   map[uint64]*accountRecord
	categories map[uint64]models.Category
	entries    map[uint64]models.Transaction

	nextAccountID  uint64
	nextCategoryID uint64
	nextEntryID    uint64

	lockWait time.Duration
}

func NewStore() *Store {
	return &Store{
		accounts:   make(map[uint64]*accountRecord),
		categories: make(map[uint64]models.Category),
		entries:    make(map[uint64]models.Transaction),
		lockWait:   2 * time.Second,
	}
}

// SetLockWait bounds how long LockAccountForUpdate waits before giving up
// with ErrContention.
func (s *Store) SetLockWait(d time.Duration) {
	s.lockWait = d
}

func (s *Store) BeginUnitOfWork(ctx context.Context) (ledger.Handle, error) {
	return &handle{store: s, ctx: ctx}, nil
}

// SeedAccount inserts an account outside any unit of work. Test fixture
// helper.
func (s *Store) SeedAccount(account models.Account) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++
	account.ID = s.nextAccountID
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	s.accounts[account.ID] = &accountRecord{account: account}

	return account
}

// SeedCategory inserts a category outside any unit of work. Test fixture
// helper.
func (s *Store) SeedCategory(category models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCategoryID++
	category.ID = s.nextCategoryID
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	s.categories[category.ID] = category

	return category
}

// Account returns the committed state of an account.
func (s *Store) Account(id uint64) (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.accounts[id]
	if !ok {
		return models.Account{}, false
	}

	return rec.account, true
}

// EntriesByAccount returns the committed entries referencing an account.
func (s *Store) EntriesByAccount(accountID uint64) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.Transaction
	for _, entry := range s.entries {
		if entry.AccountID == accountID {
			entries = append(entries, entry)
		}
	}

	return entries
}

type handle struct {
	store  *Store
	ctx    context.Context
	locked []*accountRecord
	staged []func()
	closed bool
}

func (h *handle) LockAccountForUpdate(id uint64) (*models.Account, error) {
	h.store.mu.RLock()
	rec, ok := h.store.accounts[id]
	h.store.mu.RUnlock()

	if !ok {
		return nil, ledger.ErrNotFound
	}

	deadline := time.Now().Add(h.store.lockWait)
	for !rec.mu.TryLock() {
		if h.ctx != nil && h.ctx.Err() != nil {
			return nil, ledger.ErrContention
		}
		if time.Now().After(deadline) {
			return nil, ledger.ErrContention
		}
		time.Sleep(time.Millisecond)
	}

	h.locked = append(h.locked, rec)

	h.store.mu.RLock()
	account := rec.account
	h.store.mu.RUnlock()

	return &account, nil
}

func (h *handle) WriteAccountBalance(id uint64, balance decimal.Decimal) error {
	h.store.mu.RLock()
	rec, ok := h.store.accounts[id]
	h.store.mu.RUnlock()

	if !ok {
		return ledger.ErrNotFound
	}

	h.staged = append(h.staged, func() {
		rec.account.Balance = balance
		rec.account.UpdatedAt = time.Now()
	})

	return nil
}

func (h *handle) InsertEntry(entry *models.Transaction) error {
	if entry.CategoryID.Valid {
		if err := h.checkCategory(uint64(entry.CategoryID.Int64), entry.UserID); err != nil {
			return err
		}
	}

	h.store.mu.Lock()
	h.store.nextEntryID++
	entry.ID = h.store.nextEntryID
	h.store.mu.Unlock()

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	row := *entry
	h.staged = append(h.staged, func() {
		h.store.entries[row.ID] = row
	})

	return nil
}

func (h *handle) FindEntry(id uint64) (*models.Transaction, error) {
	h.store.mu.RLock()
	entry, ok := h.store.entries[id]
	h.store.mu.RUnlock()

	if !ok {
		return nil, ledger.ErrNotFound
	}

	return &entry, nil
}

func (h *handle) ReplaceEntry(entry *models.Transaction) error {
	if entry.CategoryID.Valid {
		if err := h.checkCategory(uint64(entry.CategoryID.Int64), entry.UserID); err != nil {
			return err
		}
	}

	h.store.mu.RLock()
	_, ok := h.store.entries[entry.ID]
	h.store.mu.RUnlock()

	if !ok {
		return ledger.ErrNotFound
	}

	entry.UpdatedAt = time.Now()

	row := *entry
	h.staged = append(h.staged, func() {
		h.store.entries[row.ID] = row
	})

	return nil
}

func (h *handle) RemoveEntry(id uint64) error {
	h.store.mu.RLock()
	_, ok := h.store.entries[id]
	h.store.mu.RUnlock()

	if !ok {
		return ledger.ErrNotFound
	}

	h.staged = append(h.staged, func() {
		delete(h.store.entries, id)
	})

	return nil
}

func (h *handle) Commit() error {
	if h.closed {
		return nil
	}
	h.closed = true

	h.store.mu.Lock()
	for _, apply := range h.staged {
		apply()
	}
	h.store.mu.Unlock()

	h.release()

	return nil
}

func (h *handle) Abort() error {
	if h.closed {
		return nil
	}
	h.closed = true

	h.staged = nil
	h.release()

	return nil
}

func (h *handle) release() {
	for _, rec := range h.locked {
		rec.mu.Unlock()
	}
	h.locked = nil
}

func (h *handle) checkCategory(categoryID uint64, userID uint64) error {
	h.store.mu.RLock()
	category, ok := h.store.categories[categoryID]
	h.store.mu.RUnlock()

	if !ok || category.UserID != userID {
		return ledger.ErrConstraintViolation
	}

	return nil
}
