package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centimehq/centime/models"
)

func TestDeltaOf(t *testing.T) {
	tests := []struct {
		name   string
		kind   models.TransactionKind
		amount string
		delta  string
		err    error
	}{
		{"income is positive", models.KindIncome, "10.50", "10.50", nil},
		{"expense is negative", models.KindExpense, "10.50", "-10.50", nil},
		{"zero amount", models.KindIncome, "0", "", ErrInvalidAmount},
		{"negative amount", models.KindExpense, "-3", "", ErrInvalidAmount},
		{"unknown kind", models.TransactionKind("TRANSFER"), "5", "", ErrInvalidKind},
		{"empty kind", models.TransactionKind(""), "5", "", ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, _ := decimal.NewFromString(tt.amount)
			delta, err := DeltaOf(tt.kind, amount)

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			assert.NoError(t, err)
			expected, _ := decimal.NewFromString(tt.delta)
			assert.True(t, delta.Equal(expected), "delta %s != %s", delta, expected)
		})
	}
}

func TestInverseOf(t *testing.T) {
	delta := decimal.NewFromInt(42)

	assert.True(t, InverseOf(delta).Equal(decimal.NewFromInt(-42)))
	assert.True(t, InverseOf(InverseOf(delta)).Equal(delta))
}
