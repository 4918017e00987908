package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/centimehq/centime/controllers/entities"
	"github.com/centimehq/centime/controllers/helpers"
	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
)

type TransactionsController struct {
	DB     *gorm.DB
	Ledger *ledger.Coordinator
}

type transactionFilters struct {
	Limit int `query:"limit"`
	Page  int `query:"page"`
}

// Index lists the entries of one of the caller's accounts, newest first.
func (ctrl *TransactionsController) Index(c *fiber.Ctx) error {
	user := CurrentUser(c)

	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.invalid_id"}})
	}

	var account models.Account
	if result := ctrl.DB.Where("id = ? AND user_id = ?", accountID, user.ID).First(&account); result.Error != nil {
		return c.Status(404).JSON(helpers.Errors{Errors: []string{"account.not_found"}})
	}

	params := new(transactionFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_query"}})
	}

	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}

	var transactions []models.Transaction
	ctrl.DB.Where("account_id = ? AND user_id = ?", account.ID, user.ID).
		Order("txn_date DESC, created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&transactions)

	payload := make([]entities.TransactionEntity, 0, len(transactions))
	for i := range transactions {
		payload = append(payload, entities.TransactionToEntity(&transactions[i]))
	}

	return c.Status(200).JSON(payload)
}

func (ctrl *TransactionsController) Create(c *fiber.Ctx) error {
	user := CurrentUser(c)

	errs := new(helpers.Errors)
	payload := new(helpers.CreateTransactionParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	entry, err := ctrl.Ledger.CreateEntry(c.Context(), payload.LedgerParams(user))
	if err != nil {
		return LedgerErrorResponse(c, err)
	}

	return c.Status(201).JSON(entities.TransactionToEntity(entry))
}

func (ctrl *TransactionsController) Update(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.transaction.invalid_id"}})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.UpdateTransactionParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	entry, err := ctrl.Ledger.UpdateEntry(c.Context(), payload.LedgerParams(uint64(id), user))
	if err != nil {
		return LedgerErrorResponse(c, err)
	}

	return c.Status(200).JSON(entities.TransactionToEntity(entry))
}

func (ctrl *TransactionsController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.transaction.invalid_id"}})
	}

	if err := ctrl.Ledger.DeleteEntry(c.Context(), uint64(id)); err != nil {
		return LedgerErrorResponse(c, err)
	}

	return c.SendStatus(204)
}
