// pkg/db/repository.go
package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smith3v/impostor/pkg/config"
	"github.com/smith3v/impostor/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the configured database and brings the schema up to date.
// The handle is returned to the caller rather than kept in a package global.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		logger.Error("unsupported database configuration", "driver", cfg.Driver, "error", err)
		return nil, err
	}
	gormLogger, gormErr := newGormLogger(config.AppConfig.Logging.GormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", config.AppConfig.Logging.GormLevel, "error", gormErr)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if gdb.Dialector.Name() == "sqlite" {
		if err := configureSQLite(gdb, cfg.Path); err != nil {
			logger.Error("failed to configure sqlite", "error", err)
			return nil, err
		}
	}
	if err := Migrate(gdb); err != nil {
		logger.Error("failed to migrate database", "error", err)
		return nil, err
	}
	return gdb, nil
}

// Migrate adds the hint column to installs that predate it and then lets
// gorm create whatever else is missing.
func Migrate(gdb *gorm.DB) error {
	migrateWordHint(gdb)
	return gdb.AutoMigrate(&Category{}, &Word{})
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		return sqlite.Open(cfg.Path), nil
	case "postgres":
		dsn := "host=" + cfg.Host +
			" user=" + cfg.User +
			" password=" + cfg.Password +
			" dbname=" + cfg.DBName +
			" port=" + strconv.Itoa(cfg.Port) +
			" sslmode=" + cfg.SSLMode
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// configureSQLite pins the pool to a single connection so every statement,
// transactions included, goes through one writer.
func configureSQLite(gdb *gorm.DB, path string) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return nil
	}
	return gdb.Exec("PRAGMA journal_mode = WAL").Error
}

// migrateWordHint tries the additive column change unconditionally. Failure
// means the column (or the whole table) is already in its final shape, so
// the error is only logged at debug level.
func migrateWordHint(gdb *gorm.DB) {
	if gdb == nil {
		return
	}
	quiet := gdb.Session(&gorm.Session{Logger: gdb.Logger.LogMode(gormlogger.Silent)})
	if err := quiet.Exec("ALTER TABLE words ADD COLUMN hint TEXT").Error; err != nil {
		logger.Debug("skipping hint column migration", "error", err)
		return
	}
	logger.Info("added hint column to words table")
}
