package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, ":8000", o.Addr)
	assert.Empty(t, o.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		errs int
	}{
		{"valid custom addr", []Option{WithAddr("127.0.0.1:9000")}, 0},
		{"missing port", []Option{WithAddr("localhost")}, 1},
		{"zero timeouts", []Option{WithReadTimeout(0), WithWriteTimeout(0)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			o.ApplyOptions(tt.opts...)
			assert.Len(t, o.Validate(), tt.errs)
		})
	}
}

func TestOptions_CompleteFillsIdleTimeout(t *testing.T) {
	o := NewOptions()
	o.IdleTimeout = 0
	require.NoError(t, o.Complete())
	assert.Equal(t, 30*time.Second, o.IdleTimeout)
}
