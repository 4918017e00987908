package controllers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/centimehq/centime/config"
	"github.com/centimehq/centime/controllers/entities"
	"github.com/centimehq/centime/controllers/helpers"
	"github.com/centimehq/centime/models"
)

type BudgetsController struct {
	DB       *gorm.DB
	Cache    *config.CacheService
	CacheTTL time.Duration
}

func (ctrl *BudgetsController) Index(c *fiber.Ctx) error {
	user := CurrentUser(c)

	tx := ctrl.DB.Preload("Items").Where("user_id = ?", user.ID)

	if year, err := strconv.Atoi(c.Query("year")); err == nil && year > 0 {
		tx = tx.Where("year = ?", year)
	}
	if month, err := strconv.Atoi(c.Query("month")); err == nil && month > 0 {
		tx = tx.Where("month = ?", month)
	}

	var budgets []models.Budget
	tx.Order("year DESC, month DESC").Find(&budgets)

	return c.Status(200).JSON(budgets)
}

func (ctrl *BudgetsController) Create(c *fiber.Ctx) error {
	user := CurrentUser(c)

	errs := new(helpers.Errors)
	payload := new(helpers.CreateBudgetParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	budget := &models.Budget{
		UserID: user.ID,
		Year:   payload.Year,
		Month:  payload.Month,
	}
	for _, item := range payload.Items {
		budget.Items = append(budget.Items, models.BudgetItem{
			CategoryID: item.CategoryID,
			Amount:     item.Amount,
		})
	}

	if err := ctrl.DB.Create(budget).Error; err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"budget.already_exists"}})
	}

	return c.Status(201).JSON(budget)
}

func (ctrl *BudgetsController) Update(c *fiber.Ctx) error {
	user := CurrentUser(c)

	budget, errResp := ctrl.findBudget(c, user)
	if budget == nil {
		return errResp
	}

	errs := new(helpers.Errors)
	payload := new(helpers.UpdateBudgetParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	if payload.Year != nil {
		budget.Year = *payload.Year
	}
	if payload.Month != nil {
		budget.Month = *payload.Month
	}

	if err := ctrl.DB.Model(budget).Select("year", "month").Updates(budget).Error; err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"budget.already_exists"}})
	}

	ctrl.invalidateProgress(budget.ID)

	return c.Status(200).JSON(budget)
}

func (ctrl *BudgetsController) Delete(c *fiber.Ctx) error {
	user := CurrentUser(c)

	budget, errResp := ctrl.findBudget(c, user)
	if budget == nil {
		return errResp
	}

	if err := ctrl.DB.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}
	if err := ctrl.DB.Delete(budget).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	ctrl.invalidateProgress(budget.ID)

	return c.SendStatus(204)
}

func (ctrl *BudgetsController) AddItem(c *fiber.Ctx) error {
	user := CurrentUser(c)

	budget, errResp := ctrl.findBudget(c, user)
	if budget == nil {
		return errResp
	}

	errs := new(helpers.Errors)
	payload := new(helpers.BudgetItemParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	var count int64
	ctrl.DB.Model(&models.Category{}).Where("id = ? AND user_id = ?", payload.CategoryID, user.ID).Count(&count)
	if count == 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"budget.item.invalid_category"}})
	}

	item := &models.BudgetItem{
		BudgetID:   budget.ID,
		CategoryID: payload.CategoryID,
		Amount:     payload.Amount,
	}

	if err := ctrl.DB.Create(item).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	ctrl.invalidateProgress(budget.ID)

	return c.Status(201).JSON(item)
}

func (ctrl *BudgetsController) UpdateItem(c *fiber.Ctx) error {
	user := CurrentUser(c)

	item, errResp := ctrl.findItem(c, user)
	if item == nil {
		return errResp
	}

	errs := new(helpers.Errors)
	payload := new(helpers.BudgetItemParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"server.method.invalid_message_body"}})
	}

	helpers.Validate(payload, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	var count int64
	ctrl.DB.Model(&models.Category{}).Where("id = ? AND user_id = ?", payload.CategoryID, user.ID).Count(&count)
	if count == 0 {
		return c.Status(422).JSON(helpers.Errors{Errors: []string{"budget.item.invalid_category"}})
	}

	item.CategoryID = payload.CategoryID
	item.Amount = payload.Amount

	if err := ctrl.DB.Save(item).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	ctrl.invalidateProgress(item.BudgetID)

	return c.Status(200).JSON(item)
}

func (ctrl *BudgetsController) DeleteItem(c *fiber.Ctx) error {
	user := CurrentUser(c)

	item, errResp := ctrl.findItem(c, user)
	if item == nil {
		return errResp
	}

	if err := ctrl.DB.Delete(item).Error; err != nil {
		return c.Status(500).JSON(helpers.Errors{Errors: []string{"server.internal_error"}})
	}

	ctrl.invalidateProgress(item.BudgetID)

	return c.SendStatus(204)
}

// Progress reports planned vs spent per category for the budget's month.
// The snapshot is cached for a short TTL; staleness is acceptable because
// budgets carry no invariant-maintenance burden.
func (ctrl *BudgetsController) Progress(c *fiber.Ctx) error {
	user := CurrentUser(c)

	budget, errResp := ctrl.findBudget(c, user)
	if budget == nil {
		return errResp
	}

	if ctrl.Cache != nil {
		if cached, err := ctrl.Cache.Connection.Get(ctrl.Cache.Ctx, progressCacheKey(budget.ID)).Bytes(); err == nil {
			var entity entities.BudgetProgressEntity
			if json.Unmarshal(cached, &entity) == nil {
				return c.Status(200).JSON(entity)
			}
		}
	}

	ctrl.DB.Where("budget_id = ?", budget.ID).Find(&budget.Items)

	from := time.Date(budget.Year, time.Month(budget.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	type spentRow struct {
		CategoryID uint64
		Total      decimal.Decimal
	}

	var rows []spentRow
	ctrl.DB.Model(&models.Transaction{}).
		Select("category_id, SUM(amount) AS total").
		Where("user_id = ? AND kind = ? AND category_id IS NOT NULL AND txn_date >= ? AND txn_date < ?",
			user.ID, models.KindExpense, from, to).
		Group("category_id").
		Scan(&rows)

	spent := make(map[uint64]decimal.Decimal, len(rows))
	for _, row := range rows {
		spent[row.CategoryID] = row.Total
	}

	entity := entities.BudgetProgressEntity{
		BudgetID: budget.ID,
		Year:     budget.Year,
		Month:    budget.Month,
		Items:    make([]entities.BudgetProgressItem, 0, len(budget.Items)),
	}

	for _, item := range budget.Items {
		used := spent[item.CategoryID]
		entity.Items = append(entity.Items, entities.BudgetProgressItem{
			CategoryID: item.CategoryID,
			Planned:    item.Amount,
			Spent:      used,
			Remaining:  item.Amount.Sub(used),
		})
	}

	if ctrl.Cache != nil {
		if body, err := json.Marshal(entity); err == nil {
			ctrl.Cache.Connection.Set(ctrl.Cache.Ctx, progressCacheKey(budget.ID), body, ctrl.CacheTTL)
		}
	}

	return c.Status(200).JSON(entity)
}

func (ctrl *BudgetsController) findBudget(c *fiber.Ctx, user *models.User) (*models.Budget, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, c.Status(422).JSON(helpers.Errors{Errors: []string{"budget.invalid_id"}})
	}

	var budget models.Budget
	if result := ctrl.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&budget); result.Error != nil {
		return nil, c.Status(404).JSON(helpers.Errors{Errors: []string{"budget.not_found"}})
	}

	return &budget, nil
}

func (ctrl *BudgetsController) findItem(c *fiber.Ctx, user *models.User) (*models.BudgetItem, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, c.Status(422).JSON(helpers.Errors{Errors: []string{"budget.item.invalid_id"}})
	}

	var item models.BudgetItem
	result := ctrl.DB.Joins("JOIN budgets ON budgets.id = budget_items.budget_id").
		Where("budget_items.id = ? AND budgets.user_id = ?", id, user.ID).
		First(&item)
	if result.Error != nil {
		return nil, c.Status(404).JSON(helpers.Errors{Errors: []string{"budget.item.not_found"}})
	}

	return &item, nil
}

func (ctrl *BudgetsController) invalidateProgress(budgetID uint64) {
	if ctrl.Cache == nil {
		return
	}

	ctrl.Cache.Connection.Del(ctrl.Cache.Ctx, progressCacheKey(budgetID))
}

func progressCacheKey(budgetID uint64) string {
	return "budgets:progress:" + strconv.FormatUint(budgetID, 10)
}
