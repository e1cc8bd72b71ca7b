package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	options "github.com/Shreeshail-sp/docsearch/pkg/options/database"
)

func TestNew_SQLite(t *testing.T) {
	opts := options.NewOptions()
	opts.DSN = filepath.Join(t.TempDir(), "test.db")

	client, err := New(context.Background(), opts)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.Equal(t, options.DriverSQLite, client.Name())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.DB())
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts *options.Options
	}{
		{"nil options", nil},
		{"unknown driver", &options.Options{Driver: "oracle", LogLevel: 1}},
		{"bad log level", &options.Options{Driver: options.DriverSQLite, LogLevel: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{options.DriverSQLite, options.DriverSQLite3, options.DriverMySQL, options.DriverPostgres} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector("mssql", "dsn")
	assert.Error(t, err)
}
