package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logopts "github.com/Shreeshail-sp/docsearch/pkg/options/logger"
)

func TestReloadableLogger_OnConfigChange(t *testing.T) {
	opts := logopts.NewOptions()
	require.NoError(t, opts.Init())
	rl := NewReloadableLogger(opts)

	next := logopts.NewOptions()
	next.Level = "DEBUG"
	require.NoError(t, rl.OnConfigChange(next))
	assert.Equal(t, "DEBUG", rl.Level())

	bad := logopts.NewOptions()
	bad.Level = "LOUD"
	assert.Error(t, rl.OnConfigChange(bad))
	assert.Equal(t, "DEBUG", rl.Level())

	assert.Error(t, rl.OnConfigChange("not options"))
}
