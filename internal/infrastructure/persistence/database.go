package persistence

import (
	"fmt"

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/partner"
	"github.com/agrisale/manager/internal/infrastructure/config"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the embedded database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the embedded database at the configured path.
func NewDatabase(cfg *config.StorageConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, gormlogger.Default.LogMode(gormlogger.Silent))
}

// NewDatabaseWithLogger opens the embedded database with a custom GORM logger.
func NewDatabaseWithLogger(cfg *config.StorageConfig, gl gormlogger.Interface) (*Database, error) {
	dsn := cfg.Path
	if dsn != ":memory:" {
		// Serialize writers instead of failing fast when two operations race.
		dsn = fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gl,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps the embedded engine free of table-level
	// write contention across goroutines.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Database{DB: db}, nil
}

// Migrate creates or updates the schema for all ledger tables.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(
		&ledger.Product{},
		&ledger.Movement{},
		&ledger.CashFlow{},
		&ledger.AuditLogEntry{},
		&partner.Party{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	// Product names are the reference key movements use, so they must be
	// unique per workspace. The index spans embedded scope columns, which
	// struct tags cannot express.
	if err := d.DB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_scope_name ON products(owner_id, workspace_id, name)",
	).Error; err != nil {
		return fmt.Errorf("failed to create product name index: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}
