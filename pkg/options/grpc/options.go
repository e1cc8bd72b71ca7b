// Package grpc provides gRPC server configuration options.
package grpc

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains gRPC server configuration.
type Options struct {
	// Enabled starts the gRPC server next to the HTTP server.
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Addr is the address to listen on.
	Addr string `json:"addr" mapstructure:"addr"`
	// Timeout bounds each unary call. Zero disables it.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	// MaxRecvMsgSize is the maximum message size in bytes the server can receive.
	// Uploads travel in one message, so this also caps the document size.
	MaxRecvMsgSize int `json:"max-recv-msg-size" mapstructure:"max-recv-msg-size"`
	// MaxSendMsgSize is the maximum message size in bytes the server can send.
	MaxSendMsgSize int `json:"max-send-msg-size" mapstructure:"max-send-msg-size"`
	// EnableReflection enables gRPC server reflection for tools like grpcurl.
	EnableReflection bool `json:"enable-reflection" mapstructure:"enable-reflection"`
}

// Option is a function that configures Options.
type Option func(*Options)

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		Enabled:          true,
		Addr:             ":9090",
		Timeout:          30 * time.Second,
		MaxRecvMsgSize:   64 << 20,
		MaxSendMsgSize:   16 << 20,
		EnableReflection: true,
	}
}

// AddFlags adds flags for gRPC options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "grpc."
	fs.BoolVar(&o.Enabled, p+"enabled", o.Enabled, "Serve the gRPC API")
	fs.StringVar(&o.Addr, p+"addr", o.Addr, "gRPC server listen address")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "gRPC server request timeout")
	fs.IntVar(&o.MaxRecvMsgSize, p+"max-recv-msg-size", o.MaxRecvMsgSize, "gRPC max receive message size in bytes")
	fs.IntVar(&o.MaxSendMsgSize, p+"max-send-msg-size", o.MaxSendMsgSize, "gRPC max send message size in bytes")
	fs.BoolVar(&o.EnableReflection, p+"enable-reflection", o.EnableReflection, "Enable gRPC server reflection")
}

// Validate validates the gRPC options. A disabled server is not checked.
func (o *Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	var errs []error
	if _, _, err := net.SplitHostPort(o.Addr); err != nil {
		errs = append(errs, fmt.Errorf("grpc.addr %q is not a host:port address: %w", o.Addr, err))
	}
	if o.Timeout < 0 {
		errs = append(errs, fmt.Errorf("grpc.timeout must not be negative"))
	}
	if o.MaxRecvMsgSize <= 0 {
		errs = append(errs, fmt.Errorf("grpc.max-recv-msg-size must be positive"))
	}
	if o.MaxSendMsgSize <= 0 {
		errs = append(errs, fmt.Errorf("grpc.max-send-msg-size must be positive"))
	}
	return errs
}

// Complete completes the gRPC options with defaults.
func (o *Options) Complete() error {
	return nil
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Options) {
		o.Addr = addr
	}
}

// WithReflection enables or disables gRPC reflection.
func WithReflection(enable bool) Option {
	return func(o *Options) {
		o.EnableReflection = enable
	}
}

// ApplyOptions applies the given options to the Options.
func (o *Options) ApplyOptions(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}
