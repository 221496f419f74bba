package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eprocure/lookups/internal/config"
	"github.com/eprocure/lookups/internal/entities"
)

type Database struct {
	DB    *gorm.DB
	kinds []entities.Kind
}

// NewDatabase opens the configured backend and migrates one table per kind
// plus the audit table.
func NewDatabase(cfg config.Database, kinds []entities.Kind) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, kinds: kinds}
	if err := database.migrate(); err != nil {
		_ = database.Close()
		return nil, err
	}

	log.Printf("Database initialized (%s) with %d option tables", cfg.Driver, len(kinds))
	return database, nil
}

// NewSQLiteDatabase is a shortcut used by the CLI and tests.
func NewSQLiteDatabase(path string, kinds []entities.Kind) (*Database, error) {
	return NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     path,
		LogLevel: "silent",
	}, kinds)
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = config.DefaultDatabasePath
		}
		return sqlite.Open(sqliteDSN(path)), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN adds the connection parameters the service relies on unless the
// path already sets them. Transactions take the write lock at BEGIN so that
// a concurrent writer makes them wait out the busy timeout instead of
// failing on lock upgrade.
func sqliteDSN(path string) string {
	params := []string{}
	if !strings.Contains(path, "_busy_timeout=") {
		params = append(params, "_busy_timeout=5000")
	}
	if !strings.Contains(path, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) migrate() error {
	for _, kind := range d.kinds {
		if err := d.DB.Table(kind.Table).AutoMigrate(&entities.Option{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", kind.Table, err)
		}
	}
	if err := d.DB.AutoMigrate(&entities.AuditEvent{}, &entities.AuditEventEntity{}); err != nil {
		return fmt.Errorf("failed to migrate audit events: %w", err)
	}
	return nil
}

// Kinds returns the kinds whose tables were migrated.
func (d *Database) Kinds() []entities.Kind {
	return d.kinds
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
