package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/centimehq/centime/config"
	"github.com/centimehq/centime/controllers"
	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/routes/middlewares"
)

func SetupRouter(db *gorm.DB, coordinator *ledger.Coordinator, cache *config.CacheService, cfg *config.Config) *fiber.App {
	app := fiber.New()

	accounts := &controllers.AccountsController{
		DB:              db,
		DefaultCurrency: cfg.DefaultCurrency,
	}
	transactions := &controllers.TransactionsController{
		DB:     db,
		Ledger: coordinator,
	}
	categories := &controllers.CategoriesController{DB: db}
	budgets := &controllers.BudgetsController{
		DB:       db,
		Cache:    cache,
		CacheTTL: cfg.BudgetCacheTTL,
	}

	api := app.Group("/api/v1", middlewares.Authenticate(db))

	api.Get("/accounts", accounts.Index)
	api.Post("/accounts", accounts.Create)
	api.Put("/accounts/:id", accounts.Update)
	api.Delete("/accounts/:id", accounts.Delete)

	api.Get("/accounts/:id/transactions", transactions.Index)
	api.Post("/transactions", transactions.Create)
	api.Put("/transactions/:id", transactions.Update)
	api.Delete("/transactions/:id", transactions.Delete)

	api.Get("/categories", categories.Index)
	api.Post("/categories", categories.Create)
	api.Put("/categories/:id", categories.Update)
	api.Delete("/categories/:id", categories.Delete)

	api.Get("/budgets", budgets.Index)
	api.Post("/budgets", budgets.Create)
	api.Put("/budgets/:id", budgets.Update)
	api.Delete("/budgets/:id", budgets.Delete)
	api.Get("/budgets/:id/progress", budgets.Progress)
	api.Post("/budgets/:id/items", budgets.AddItem)
	api.Put("/budget_items/:id", budgets.UpdateItem)
	api.Delete("/budget_items/:id", budgets.DeleteItem)

	return app
}
