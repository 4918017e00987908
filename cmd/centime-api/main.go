package main

import (
	"github.com/centimehq/centime/config"
	"github.com/centimehq/centime/events"
	"github.com/centimehq/centime/jobs/cron"
	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
	"github.com/centimehq/centime/routes"
	"github.com/centimehq/centime/store/postgres"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger()

	db, err := config.NewDatabase()
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.BudgetItem{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	cache, err := config.NewCacheService(cfg)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, budget progress cache disabled")
		cache = nil
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, events disabled")
		} else {
			publisher = amqpPublisher
		}
	}

	coordinator := ledger.NewCoordinator(postgres.NewStore(db), publisher, log)

	go cron.Start(db, log, cfg.ReconcileAt)

	app := routes.SetupRouter(db, coordinator, cache, cfg)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
