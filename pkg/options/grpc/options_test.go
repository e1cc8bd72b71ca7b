package grpc

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, ":9090", o.Addr)
	assert.True(t, o.Enabled)
	assert.Empty(t, o.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		errs   int
	}{
		{"valid custom addr", func(o *Options) { o.ApplyOptions(WithAddr("127.0.0.1:0")) }, 0},
		{"missing port", func(o *Options) { o.Addr = "localhost" }, 1},
		{"zero message sizes", func(o *Options) { o.MaxRecvMsgSize, o.MaxSendMsgSize = 0, 0 }, 2},
		{"negative timeout", func(o *Options) { o.Timeout = -1 }, 1},
		{"disabled skips checks", func(o *Options) { o.Enabled, o.Addr = false, "" }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.modify(o)
			assert.Len(t, o.Validate(), tt.errs)
		})
	}
}

func TestOptions_AddFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--grpc.addr=:9191", "--grpc.enable-reflection=false", "--grpc.enabled=false"}))
	assert.Equal(t, ":9191", o.Addr)
	assert.False(t, o.EnableReflection)
	assert.False(t, o.Enabled)
}
