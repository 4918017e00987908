package helpers

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/centimehq/centime/models"
)

type CreateAccountParams struct {
	Name           string              `json:"name" form:"name" validate:"required"`
	Kind           models.AccountKind  `json:"kind" form:"kind" validate:"required|ValidateKind"`
	Currency       string              `json:"currency" form:"currency"`
	InitialBalance decimal.NullDecimal `json:"initial_balance" form:"initial_balance"`
}

func (p CreateAccountParams) Messages() map[string]string {
	return validate.MS{
		"required":     "account.missing_{field}",
		"ValidateKind": "account.invalid_kind",
	}
}

func (p CreateAccountParams) ValidateKind(Kind models.AccountKind) bool {
	return Kind.Valid()
}

// BuildAccount assembles a new account for the given user. The running
// balance starts equal to the initial balance; only the ledger coordinator
// moves it afterwards.
func (p CreateAccountParams) BuildAccount(user *models.User, defaultCurrency string) *models.Account {
	initial := decimal.Zero
	if p.InitialBalance.Valid {
		initial = p.InitialBalance.Decimal
	}

	return &models.Account{
		UserID:         user.ID,
		Name:           p.Name,
		Kind:           p.Kind,
		Currency:       models.NormalizeCurrency(p.Currency, defaultCurrency),
		InitialBalance: initial,
		Balance:        initial,
	}
}

// UpdateAccountParams covers metadata only. Balance is deliberately not
// representable here.
type UpdateAccountParams struct {
	Name     *string             `json:"name" form:"name"`
	Kind     *models.AccountKind `json:"kind" form:"kind" validate:"ValidateKind"`
	Currency *string             `json:"currency" form:"currency"`
	Archived *bool               `json:"archived" form:"archived"`
}

func (p UpdateAccountParams) Messages() map[string]string {
	return validate.MS{
		"ValidateKind": "account.invalid_kind",
	}
}

func (p UpdateAccountParams) ValidateKind(Kind *models.AccountKind) bool {
	if Kind == nil {
		return true
	}

	return Kind.Valid()
}

func (p UpdateAccountParams) Apply(account *models.Account, defaultCurrency string) {
	if p.Name != nil {
		account.Name = *p.Name
	}
	if p.Kind != nil {
		account.Kind = *p.Kind
	}
	if p.Currency != nil {
		account.Currency = models.NormalizeCurrency(*p.Currency, defaultCurrency)
	}
	if p.Archived != nil {
		account.Archived = *p.Archived
	}
}
