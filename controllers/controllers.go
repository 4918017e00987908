package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/centimehq/centime/controllers/helpers"
	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
)

func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals("CurrentUser").(*models.User)
	if !ok {
		return nil
	}

	return user
}

// LedgerErrorResponse maps the ledger error taxonomy onto HTTP statuses.
// Contention is retriable by the caller, hence 409.
func LedgerErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return c.Status(404).JSON(helpers.Errors{Errors: []string{"account.transaction.not_found"}})
	case errors.Is(err, ledger.ErrForbidden):
		return c.Status(403).JSON(helpers.Errors{Errors: []string{"account.transaction.forbidden"}})
	case errors.Is(err, ledger.ErrInvalidAmount):
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.transaction.non_positive_amount"}})
	case errors.Is(err, ledger.ErrInvalidKind):
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.transaction.invalid_kind"}})
	case errors.Is(err, ledger.ErrUnsupportedOperation):
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.transaction.cross_account_move"}})
	case errors.Is(err, ledger.ErrConstraintViolation):
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.transaction.invalid_category"}})
	case errors.Is(err, ledger.ErrContention):
		return c.Status(409).JSON(helpers.Errors{Errors: []string{"account.transaction.try_again"}})
	default:
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}
}
