package embedding

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	opts := NewOptions()

	assert.Empty(t, opts.Validate())
	assert.Equal(t, 384, opts.Dimension)
	assert.NotNil(t, opts.CircuitBreakerConfig())
	assert.Equal(t, opts.Retry.MaxAttempts, opts.RetryConfig().MaxAttempts)
	assert.NotNil(t, opts.RetryConfig().Retryable)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		errs   int
	}{
		{"openai without key", func(o *Options) { o.Provider = ProviderOpenAI }, 1},
		{"openai with key", func(o *Options) { o.Provider, o.APIKey = ProviderOpenAI, "sk-test" }, 0},
		{"unknown provider", func(o *Options) { o.Provider = "cohere" }, 1},
		{"zero dimension", func(o *Options) { o.Dimension = 0 }, 1},
		{"zero workers", func(o *Options) { o.Workers = 0 }, 1},
		{"no attempts", func(o *Options) { o.Retry.MaxAttempts = 0 }, 1},
		{"disabled breaker is not checked", func(o *Options) {
			o.Breaker.Enabled, o.Breaker.MaxFailures = false, 0
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.modify(opts)
			assert.Len(t, opts.Validate(), tt.errs)
		})
	}
}

func TestOptions_ToConfigMap(t *testing.T) {
	opts := NewOptions()
	opts.Timeout = 5 * time.Second

	m := opts.ToConfigMap()
	assert.Equal(t, opts.BaseURL, m["base_url"])
	assert.Equal(t, opts.Model, m["embed_model"])
	assert.Equal(t, 384, m["dimensions"])
	assert.Equal(t, 5*time.Second, m["timeout"])
}

func TestOptions_Complete_ReadsEnv(t *testing.T) {
	t.Setenv("EMBEDDING_API_KEY", "sk-env")

	opts := &Options{}
	require.NoError(t, opts.Complete())
	assert.Equal(t, "sk-env", opts.APIKey)
	assert.NotNil(t, opts.Retry)
	assert.NotNil(t, opts.Breaker)
}

func TestOptions_AddFlags(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--embedding.provider=openai",
		"--embedding.dimension=1536",
		"--embedding.breaker.enabled=false",
	}))
	assert.Equal(t, ProviderOpenAI, opts.Provider)
	assert.Equal(t, 1536, opts.Dimension)
	assert.Nil(t, opts.CircuitBreakerConfig())
}
