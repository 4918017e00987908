package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/centimehq/centime/controllers/helpers"
	"github.com/centimehq/centime/models"
)

type CategoriesController struct {
	DB *gorm.DB
}

func (ctrl *CategoriesController) Index(c *fiber.Ctx) error {
	user := CurrentUser(c)

	var categories []models.Category
	ctrl.DB.Where("user_id = ?", user.ID).Order("name ASC").Find(&categories)

	return c.Status(200).JSON(categories)
}

func (ctrl *CategoriesController) Create(c *fiber.Ctx) error {
	user := CurrentUser(c)

	errs := new(helpers.Errors)
	payload := new(helpers.CreateCategoryParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	category := &models.Category{
		UserID: user.ID,
		Name:   payload.Name,
		Kind:   payload.Kind,
	}

	if err := ctrl.DB.Create(category).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	return c.Status(201).JSON(category)
}

func (ctrl *CategoriesController) Update(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"category.invalid_id"}})
	}

	var category models.Category
	if result := ctrl.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&category); result.Error != nil {
		return c.Status(404).JSON(helpers.Errors{Errors: []string{"category.not_found"}})
	}

	errs := new(helpers.Errors)
	payload := new(helpers.UpdateCategoryParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	if payload.Name != nil {
		category.Name = *payload.Name
	}
	if payload.Kind != nil {
		category.Kind = *payload.Kind
	}

	if err := ctrl.DB.Save(&category).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	return c.Status(200).JSON(category)
}

// Delete refuses to remove a category still referenced by ledger entries.
func (ctrl *CategoriesController) Delete(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"category.invalid_id"}})
	}

	var category models.Category
	if result := ctrl.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&category); result.Error != nil {
		return c.Status(404).JSON(helpers.Errors{Errors: []string{"category.not_found"}})
	}

	var count int64
	ctrl.DB.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&count)

	if count > 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"category.in_use"}})
	}

	if err := ctrl.DB.Delete(&category).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	return c.SendStatus(204)
}
