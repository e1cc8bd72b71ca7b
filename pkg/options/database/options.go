// Package database provides gorm database configuration options.
package database

import (
	"fmt"
	"os"
	"time"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverSQLite3  = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options defines configuration options for a gorm-backed database.
type Options struct {
	Driver                string        `json:"driver" mapstructure:"driver"`
	DSN                   string        `json:"-" mapstructure:"dsn"`
	MaxIdleConnections    int           `json:"max-idle-connections" mapstructure:"max-idle-connections"`
	MaxOpenConnections    int           `json:"max-open-connections" mapstructure:"max-open-connections"`
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`
	LogLevel              int           `json:"log-level" mapstructure:"log-level"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Driver:                DriverSQLite,
		DSN:                   "data/docsearch.db",
		MaxIdleConnections:    10,
		MaxOpenConnections:    100,
		MaxConnectionLifeTime: 10 * time.Second,
		LogLevel:              1, // Silent
	}
}

// Complete fills the DSN from DATABASE_DSN when none was given.
func (o *Options) Complete() error {
	if o.DSN == "" {
		o.DSN = os.Getenv("DATABASE_DSN")
	}
	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Driver {
	case DriverSQLite, DriverSQLite3, DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be one of sqlite, sqlite3, mysql, postgres, got %q", o.Driver))
	}
	if o.MaxOpenConnections < 0 || o.MaxIdleConnections < 0 {
		errs = append(errs, fmt.Errorf("database connection pool sizes must not be negative"))
	}
	if o.LogLevel < 1 || o.LogLevel > 4 {
		errs = append(errs, fmt.Errorf("database.log-level must be between 1 (silent) and 4 (info)"))
	}
	return errs
}

// AddFlags adds flags for database options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.Driver, p+"database.driver", o.Driver, "Database driver (sqlite|sqlite3|mysql|postgres).")
	fs.StringVar(&o.DSN, p+"database.dsn", o.DSN, "Database DSN; for sqlite the database file path. Prefer DATABASE_DSN env var for credentials.")
	fs.IntVar(&o.MaxIdleConnections, p+"database.max-idle-connections", o.MaxIdleConnections, "Max idle connections.")
	fs.IntVar(&o.MaxOpenConnections, p+"database.max-open-connections", o.MaxOpenConnections, "Max open connections.")
	fs.DurationVar(&o.MaxConnectionLifeTime, p+"database.max-connection-life-time", o.MaxConnectionLifeTime, "Max connection life time.")
	fs.IntVar(&o.LogLevel, p+"database.log-level", o.LogLevel, "Gorm log level (1 silent, 2 error, 3 warn, 4 info).")
}
