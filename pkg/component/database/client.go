// Package database opens gorm connections for the configured driver.
package database

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	mysqldriver "gorm.io/driver/mysql"
	postgresdriver "gorm.io/driver/postgres"
	sqlite3driver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	options "github.com/Shreeshail-sp/docsearch/pkg/options/database"
)

// Client wraps gorm.DB.
//
// Example usage:
//
//	opts := options.NewOptions()
//	opts.Driver = options.DriverPostgres
//	opts.DSN = "host=localhost user=docsearch dbname=docsearch"
//
//	client, err := database.New(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
type Client struct {
	db   *gorm.DB
	opts *options.Options
}

// New opens a connection, applies pool settings and pings the server.
func New(ctx context.Context, opts *options.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("database options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid database options: %v", errs)
	}

	dialector, err := Dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.LogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConnections)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConnections)
	sqlDB.SetConnMaxLifetime(opts.MaxConnectionLifeTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", opts.Driver, err)
	}

	return &Client{db: db, opts: opts}, nil
}

// Dialector returns the gorm dialector for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case options.DriverSQLite:
		return sqlite.Open(dsn), nil
	case options.DriverSQLite3:
		return sqlite3driver.Open(dsn), nil
	case options.DriverMySQL:
		return mysqldriver.Open(dsn), nil
	case options.DriverPostgres:
		return postgresdriver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// DB returns the underlying gorm.DB.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Name returns the driver name.
func (c *Client) Name() string {
	return c.opts.Driver
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
