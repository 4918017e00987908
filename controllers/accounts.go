package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/centimehq/centime/controllers/helpers"
	"github.com/centimehq/centime/models"
)

type AccountsController struct {
	DB              *gorm.DB
	DefaultCurrency string
}

func (ctrl *AccountsController) Index(c *fiber.Ctx) error {
	user := CurrentUser(c)

	var accounts []models.Account
	ctrl.DB.Where("user_id = ?", user.ID).Order("created_at ASC").Find(&accounts)

	return c.Status(200).JSON(accounts)
}

func (ctrl *AccountsController) Create(c *fiber.Ctx) error {
	user := CurrentUser(c)

	errs := new(helpers.Errors)
	payload := new(helpers.CreateAccountParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	account := payload.BuildAccount(user, ctrl.DefaultCurrency)

	if err := ctrl.DB.Create(account).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	return c.Status(201).JSON(account)
}

// Update edits account metadata. The balance columns are never touched here,
// only the ledger coordinator moves them.
func (ctrl *AccountsController) Update(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.invalid_id"}})
	}

	var account models.Account
	if result := ctrl.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&account); result.Error != nil {
		return c.Status(404).JSON(helpers.Errors{Errors: []string{"account.not_found"}})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.UpdateAccountParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	payload.Apply(&account, ctrl.DefaultCurrency)

	if err := ctrl.DB.Model(&account).Select("name", "kind", "currency", "archived").Updates(&account).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	return c.Status(200).JSON(account)
}

// Delete archives an account that has ledger entries and removes one that
// has none.
func (ctrl *AccountsController) Delete(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"account.invalid_id"}})
	}

	var account models.Account
	if result := ctrl.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&account); result.Error != nil {
		return c.Status(404).JSON(helpers.Errors{Errors: []string{"account.not_found"}})
	}

	var count int64
	ctrl.DB.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&count)

	if count > 0 {
		if err := ctrl.DB.Model(&account).Update("archived", true).Error; err != nil {
			return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
		}

		return c.Status(200).JSON(account)
	}

	if err := ctrl.DB.Delete(&account).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	return c.SendStatus(204)
}
