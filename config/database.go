package config

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DSN returns DatabaseURI when set, otherwise a connection string assembled
// from the individual DB* fields for the configured driver.
func (c AppConfig) DSN() string {
	if c.DatabaseURI != "" {
		return c.DatabaseURI
	}
	switch c.DBDriver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, portOr(c.DBPort, "3306"), c.DBName)
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, portOr(c.DBPort, "5432"), c.DBUser, c.DBPassword, c.DBName)
	default:
		return SQLiteDSN(c.DBPath)
	}
}

// SQLiteDSN turns a file path (or ":memory:"-style name) into a DSN with
// foreign key enforcement switched on, which ON DELETE CASCADE depends on.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func portOr(port, def string) string {
	if port == "" {
		return def
	}
	return port
}

func dialector(cfg AppConfig) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case DriverSQLite, "":
		return sqlite.Open(cfg.DSN()), nil
	case DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// InitDatabase opens the store described by cfg, verifies it is reachable and
// migrates the given models. GORM's own log lines go to w. The caller owns the
// returned handle and is expected to close it on shutdown.
func InitDatabase(cfg AppConfig, w logger.Writer, modelDefs ...interface{}) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gLogger := logger.New(w, logger.Config{
		SlowThreshold:             2 * time.Second,
		LogLevel:                  toGormLogLevel(cfg.LogLevel),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(dial, &gorm.Config{Logger: gLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.DBDriver == DriverSQLite || cfg.DBDriver == "" {
		// sqlite serialises writers anyway; a single connection also keeps
		// in-memory databases and per-connection pragmas consistent.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(nz(cfg.DBMaxIdleConns, 5))
		sqlDB.SetMaxOpenConns(nz(cfg.DBMaxOpenConns, 20))
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := Migrate(db, modelDefs...); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates missing tables and adds missing columns. Models must be
// passed parents first so foreign keys resolve.
func Migrate(db *gorm.DB, modelDefs ...interface{}) error {
	for _, model := range modelDefs {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migration failed for %T: %w", model, err)
		}
	}
	return nil
}

// ResetDatabase drops the given tables (children first) and recreates them.
func ResetDatabase(db *gorm.DB, modelDefs ...interface{}) error {
	for i := len(modelDefs) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(modelDefs[i]); err != nil {
			return fmt.Errorf("drop table for %T: %w", modelDefs[i], err)
		}
	}
	return Migrate(db, modelDefs...)
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "info", "", "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

func nz(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
