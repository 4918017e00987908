package config

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDatabase() (*gorm.DB, error) {
	var sslmode string
	if os.Getenv("DATABASE_SSLMODE") == "disable" {
		sslmode = "disable"
	} else {
		sslmode = "require"
	}

	// lock_timeout bounds the wait for account row locks; expired waits
	// surface as SQLSTATE 55P03 and are mapped to ErrContention.
	lockTimeout := os.Getenv("DATABASE_LOCK_TIMEOUT")
	if lockTimeout == "" {
		lockTimeout = "5s"
	}

	dsn := "host=" + os.Getenv("DATABASE_HOST") +
		" port=" + os.Getenv("DATABASE_PORT") +
		" user=" + os.Getenv("DATABASE_USER") +
		" password=" + os.Getenv("DATABASE_PASS") +
		" dbname=" + os.Getenv("DATABASE_NAME") +
		" sslmode=" + sslmode +
		" options='-c lock_timeout=" + lockTimeout + "'"

	dialector := postgres.Open(dsn)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newLogger,
	})

	if err != nil {
		return nil, err
	}

	return db, nil
}
