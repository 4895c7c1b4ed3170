package storage

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"queuewise/internal/config"
	"queuewise/internal/models"
)

// Open connects to the configured database.
func Open(cfg config.Database, logger *logrus.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormLogger.New(logger, gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Username, cfg.Postgres.Password, cfg.Postgres.Database)
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	case config.DriverMemory:
		dialector = sqlite.Open(fmt.Sprintf("file:queuewise-%s?mode=memory&cache=shared", uuid.NewString()))
	default:
		return nil, errors.Errorf("storage : unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "storage : failed to open database")
	}

	if cfg.Driver != config.DriverPostgres {
		// sqlite has a single writer; one connection keeps writes from tripping over
		// each other.
		conn, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "storage : failed to get sql.DB")
		}
		conn.SetMaxOpenConns(1)
	}

	return db, nil
}

// AutoMigrate creates or updates tables for the embedded drivers. Postgres schemas
// go through the migrate command instead.
func AutoMigrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(models.All()...), "storage : auto migration failed")
}
