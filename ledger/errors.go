package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing entry and a missing (or foreign)
	// account; callers cannot distinguish "absent" from "not yours".
	ErrNotFound = errors.New("ledger: not found")

	// ErrForbidden is returned when an entry exists but belongs to another
	// user.
	ErrForbidden = errors.New("ledger: forbidden")

	// ErrInvalidAmount rejects non-positive amounts before any store work.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")

	// ErrInvalidKind rejects kinds outside EXPENSE|INCOME.
	ErrInvalidKind = errors.New("ledger: invalid kind")

	// ErrUnsupportedOperation rejects cross-account moves; callers must
	// delete and re-create instead.
	ErrUnsupportedOperation = errors.New("ledger: unsupported operation")

	// ErrConstraintViolation is returned by the entry repository when a
	// referenced category does not belong to the requesting user.
	ErrConstraintViolation = errors.New("ledger: constraint violation")

	// ErrContention is returned when the account row lock cannot be
	// acquired within the store's timeout. The caller may retry.
	ErrContention = errors.New("ledger: lock contention")

	// ErrStore wraps any other durable-store failure; the cause is kept
	// opaque to callers.
	ErrStore = errors.New("ledger: store failure")
)

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}
