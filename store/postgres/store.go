// Package postgres implements the ledger store contract on top of gorm.
// Units of work map to database transactions; the account row lock maps to
// SELECT ... FOR UPDATE, bounded by the session lock_timeout.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) BeginUnitOfWork(ctx context.Context) (ledger.Handle, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	return &handle{tx: tx}, nil
}

type handle struct {
	tx *gorm.DB
}

func (h *handle) LockAccountForUpdate(id uint64) (*models.Account, error) {
	var account models.Account

	result := h.tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&account)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if result.Error != nil {
		return nil, mapError(result.Error)
	}

	return &account, nil
}

func (h *handle) WriteAccountBalance(id uint64, balance decimal.Decimal) error {
	result := h.tx.Model(&models.Account{}).Where("id = ?", id).Update("balance", balance)

	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (h *handle) InsertEntry(entry *models.Transaction) error {
	if entry.CategoryID.Valid {
		if err := h.checkCategory(uint64(entry.CategoryID.Int64), entry.UserID); err != nil {
			return err
		}
	}

	if err := h.tx.Create(entry).Error; err != nil {
		return mapError(err)
	}

	return nil
}

func (h *handle) FindEntry(id uint64) (*models.Transaction, error) {
	var entry models.Transaction

	result := h.tx.Where("id = ?", id).First(&entry)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if result.Error != nil {
		return nil, mapError(result.Error)
	}

	return &entry, nil
}

func (h *handle) ReplaceEntry(entry *models.Transaction) error {
	if entry.CategoryID.Valid {
		if err := h.checkCategory(uint64(entry.CategoryID.Int64), entry.UserID); err != nil {
			return err
		}
	}

	result := h.tx.Model(&models.Transaction{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
		"kind":        entry.Kind,
		"amount":      entry.Amount,
		"category_id": entry.CategoryID,
		"txn_date":    entry.TxnDate,
		"description": entry.Description,
	})

	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (h *handle) RemoveEntry(id uint64) error {
	result := h.tx.Delete(&models.Transaction{}, "id = ?", id)

	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (h *handle) Commit() error {
	return h.tx.Commit().Error
}

func (h *handle) Abort() error {
	return h.tx.Rollback().Error
}

func (h *handle) checkCategory(categoryID uint64, userID uint64) error {
	var count int64

	if err := h.tx.Model(&models.Category{}).Where("id = ? AND user_id = ?", categoryID, userID).Count(&count).Error; err != nil {
		return mapError(err)
	}
	if count == 0 {
		return ledger.ErrConstraintViolation
	}

	return nil
}

const (
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
	pgForeignKey       = "23503"
	pgUniqueViolation  = "23505"
)

func mapError(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected:
			return ledger.ErrContention
		case pgForeignKey, pgUniqueViolation:
			return ledger.ErrConstraintViolation
		}
	}

	return fmt.Errorf("%w: %v", ledger.ErrStore, err)
}
