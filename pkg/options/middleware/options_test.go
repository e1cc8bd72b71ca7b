package middleware

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions_Defaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, DefaultMiddlewareOrder(), o.Middleware)
	assert.Equal(t, []string{"*"}, o.CORS.AllowOrigins)
	assert.Equal(t, "X-Request-ID", o.RequestID.Header)
	assert.True(t, o.IsEnabled(MiddlewareCORS))
	assert.Empty(t, o.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		fields []string
	}{
		{"unknown middleware", func(o *Options) { o.Middleware = []string{"recovery", "auth"} }, []string{"middleware"}},
		{"duplicate middleware", func(o *Options) { o.Middleware = []string{"logger", "logger"} }, []string{"middleware"}},
		{"empty request id header", func(o *Options) { o.RequestID.Header = "" }, []string{MiddlewareRequestID}},
		{"bad generator", func(o *Options) { o.RequestID.GeneratorType = "uuid" }, []string{MiddlewareRequestID}},
		{"credentials with wildcard", func(o *Options) { o.CORS.AllowCredentials = true }, []string{MiddlewareCORS}},
		{"zero timeout", func(o *Options) { o.Timeout.Timeout = 0 }, []string{MiddlewareTimeout}},
		{"relative version path", func(o *Options) { o.Version.Path = "version" }, []string{"version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.modify(o)
			errs := o.Validate()
			require.Len(t, errs, len(tt.fields))
			for i, err := range errs {
				var cfgErr *ConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, tt.fields[i], cfgErr.Field)
			}
		})
	}
}

func TestOptions_FlagsAndWithout(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("middleware", pflag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--middleware.cors.allow-origins=https://docs.example.com",
		"--middleware.request-id.generator=hex",
	}))
	assert.Equal(t, []string{"https://docs.example.com"}, o.CORS.AllowOrigins)
	assert.Equal(t, GeneratorHex, o.RequestID.GeneratorType)

	o.ApplyOptions(Without(MiddlewareTimeout))
	assert.False(t, o.IsEnabled(MiddlewareTimeout))
	assert.True(t, o.IsEnabled(MiddlewareRecovery))
	assert.Len(t, DefaultMiddlewareOrder(), 6, "Without must not alias the default order")
}

func TestOptions_Complete(t *testing.T) {
	o := &Options{}
	require.NoError(t, o.Complete())
	assert.NotNil(t, o.CORS)
	assert.Equal(t, "/version", o.Version.Path)
	assert.Equal(t, DefaultMiddlewareOrder(), o.Middleware)
}
