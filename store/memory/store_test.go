package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
)

func seedAccount(s *Store) models.Account {
	return s.SeedAccount(models.Account{
		UserID:         1,
		Name:           "Compte courant",
		Kind:           models.AccountKindChecking,
		Currency:       "EUR",
		InitialBalance: decimal.Zero,
		Balance:        decimal.Zero,
	})
}

func TestCommitAppliesStagedWrites(t *testing.T) {
	store := NewStore()
	account := seedAccount(store)

	h, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	_, err = h.LockAccountForUpdate(account.ID)
	require.NoError(t, err)

	entry := &models.Transaction{
		UserID:    1,
		AccountID: account.ID,
		Kind:      models.KindIncome,
		Amount:    decimal.NewFromInt(10),
	}
	require.NoError(t, h.InsertEntry(entry))
	require.NoError(t, h.WriteAccountBalance(account.ID, decimal.NewFromInt(10)))

	// nothing visible before commit
	current, _ := store.Account(account.ID)
	assert.True(t, current.Balance.IsZero())
	assert.Empty(t, store.EntriesByAccount(account.ID))

	require.NoError(t, h.Commit())

	current, _ = store.Account(account.ID)
	assert.True(t, current.Balance.Equal(decimal.NewFromInt(10)))
	assert.Len(t, store.EntriesByAccount(account.ID), 1)
}

func TestAbortLeavesNoTrace(t *testing.T) {
	store := NewStore()
	account := seedAccount(store)

	h, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	_, err = h.LockAccountForUpdate(account.ID)
	require.NoError(t, err)

	entry := &models.Transaction{
		UserID:    1,
		AccountID: account.ID,
		Kind:      models.KindExpense,
		Amount:    decimal.NewFromInt(5),
	}
	require.NoError(t, h.InsertEntry(entry))
	require.NoError(t, h.WriteAccountBalance(account.ID, decimal.NewFromInt(-5)))

	require.NoError(t, h.Abort())

	current, _ := store.Account(account.ID)
	assert.True(t, current.Balance.IsZero())
	assert.Empty(t, store.EntriesByAccount(account.ID))
}

func TestLockTimeoutReturnsContention(t *testing.T) {
	store := NewStore()
	store.SetLockWait(20 * time.Millisecond)
	account := seedAccount(store)

	first, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	_, err = first.LockAccountForUpdate(account.ID)
	require.NoError(t, err)

	second, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	_, err = second.LockAccountForUpdate(account.ID)
	assert.ErrorIs(t, err, ledger.ErrContention)

	require.NoError(t, first.Abort())

	// lock is free again after abort
	third, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	_, err = third.LockAccountForUpdate(account.ID)
	assert.NoError(t, err)
	require.NoError(t, third.Abort())
}

func TestFindEntryReadsCommittedState(t *testing.T) {
	store := NewStore()
	account := seedAccount(store)

	h, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	_, err = h.LockAccountForUpdate(account.ID)
	require.NoError(t, err)

	entry := &models.Transaction{
		UserID:    1,
		AccountID: account.ID,
		Kind:      models.KindIncome,
		Amount:    decimal.NewFromInt(3),
	}
	require.NoError(t, h.InsertEntry(entry))
	require.NoError(t, h.Commit())

	reader, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	found, err := reader.FindEntry(entry.ID)
	require.NoError(t, err)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(3)))

	_, err = reader.FindEntry(999)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	require.NoError(t, reader.Abort())
}

func TestRemoveMissingEntry(t *testing.T) {
	store := NewStore()

	h, err := store.BeginUnitOfWork(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, h.RemoveEntry(42), ledger.ErrNotFound)
	require.NoError(t, h.Abort())
}
