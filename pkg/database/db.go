// Package database opens the gorm connection shared by the app.
package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/shopdesk/config"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
)

// DB is the process-wide connection set by Connect.
var DB *gorm.DB

// Options tunes Open.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	Debug        bool
}

// Connect opens the configured database into DB.
func Connect() error {
	db, err := Open(config.DatabaseDriver(), config.DatabaseDSN(), Options{
		MaxOpenConns: 25,
		MaxIdleConns: 10,
		Debug:        config.LogLevel() == "debug",
	})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to driver/dsn. All timestamps gorm writes are UTC.
func Open(driver, dsn string, opts Options) (*gorm.DB, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	mode := gormlogger.Silent
	if opts.Debug {
		mode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(mode),
		NowFunc: func() time.Time { return time.Now().UTC() },
		// users.shop_id and shops.owner_id reference each other; cascades
		// run in application transactions instead.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	if err := db.Use(metrics.GormPlugin{}); err != nil {
		return nil, fmt.Errorf("database: metrics plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}
