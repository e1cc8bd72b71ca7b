package redis

import (
	"encoding/json"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsJSONMarshal_PasswordRedacted(t *testing.T) {
	opts := NewOptions()
	opts.Password = "supersecret"

	data, err := json.Marshal(opts)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "supersecret")
	assert.Contains(t, string(data), redactedPassword)
	assert.NotContains(t, opts.String(), "supersecret")
}

func TestOptionsJSONMarshal_EmptyPassword(t *testing.T) {
	data, err := json.Marshal(NewOptions())
	require.NoError(t, err)

	assert.Contains(t, string(data), `"password":""`)
}

func TestOptions_Complete_ReadsEnv(t *testing.T) {
	t.Setenv("REDIS_PASSWORD", "from-env")

	opts := NewOptions()
	require.NoError(t, opts.Complete())
	assert.Equal(t, "from-env", opts.Password)

	opts.Password = "explicit"
	require.NoError(t, opts.Complete())
	assert.Equal(t, "explicit", opts.Password)
}

func TestOptions_Validate(t *testing.T) {
	assert.Empty(t, NewOptions().Validate())

	opts := NewOptions()
	opts.Host = ""
	opts.Port = 70000
	opts.PoolSize = -1
	assert.Len(t, opts.Validate(), 3)
}

func TestOptions_AddFlags_Prefixed(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs, "cache")

	require.NoError(t, fs.Parse([]string{"--cache.redis.host=redis.internal", "--cache.redis.port=6380"}))
	assert.Equal(t, "redis.internal:6380", opts.Addr())
}
