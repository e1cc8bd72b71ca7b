// Package middleware provides middleware configuration options.
package middleware

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// ConfigError 表示配置错误。
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// 中间件名称常量。
const (
	MiddlewareRecovery  = "recovery"
	MiddlewareRequestID = "request-id"
	MiddlewareTracing   = "tracing"
	MiddlewareLogger    = "logger"
	MiddlewareCORS      = "cors"
	MiddlewareTimeout   = "timeout"
)

// Options 中间件配置。
// Middleware 同时决定启用哪些中间件以及应用顺序。
type Options struct {
	Middleware []string `json:"middleware" mapstructure:"middleware"`

	Recovery  *RecoveryOptions  `json:"recovery" mapstructure:"recovery"`
	RequestID *RequestIDOptions `json:"request-id" mapstructure:"request-id"`
	Logger    *LoggerOptions    `json:"logger" mapstructure:"logger"`
	CORS      *CORSOptions      `json:"cors" mapstructure:"cors"`
	Timeout   *TimeoutOptions   `json:"timeout" mapstructure:"timeout"`
	Version   *VersionOptions   `json:"version" mapstructure:"version"`
}

// Option is a function that configures Options.
type Option func(*Options)

// NewOptions 创建默认中间件选项。
func NewOptions() *Options {
	return &Options{
		Middleware: DefaultMiddlewareOrder(),
		Recovery:   NewRecoveryOptions(),
		RequestID:  NewRequestIDOptions(),
		Logger:     NewLoggerOptions(),
		CORS:       NewCORSOptions(),
		Timeout:    NewTimeoutOptions(),
		Version:    NewVersionOptions(),
	}
}

// DefaultMiddlewareOrder 返回默认的中间件应用顺序。
func DefaultMiddlewareOrder() []string {
	return []string{
		MiddlewareRecovery,  // 最先执行，捕获 panic
		MiddlewareRequestID, // 为后续中间件提供 RequestID
		MiddlewareTracing,
		MiddlewareLogger,
		MiddlewareCORS,
		MiddlewareTimeout,
	}
}

func knownMiddleware() map[string]bool {
	known := map[string]bool{}
	for _, name := range DefaultMiddlewareOrder() {
		known[name] = true
	}
	return known
}

// IsEnabled 检查指定中间件是否出现在 Middleware 列表中。
func (o *Options) IsEnabled(name string) bool {
	for _, n := range o.Middleware {
		if n == name {
			return true
		}
	}
	return false
}

// AddFlags 添加所有中间件配置的命令行标志。
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringSliceVar(&o.Middleware, options.Join(prefixes...)+"middleware.order", o.Middleware,
		"Enabled middleware in application order.")
	o.Recovery.AddFlags(fs, prefixes...)
	o.RequestID.AddFlags(fs, prefixes...)
	o.Logger.AddFlags(fs, prefixes...)
	o.CORS.AddFlags(fs, prefixes...)
	o.Timeout.AddFlags(fs, prefixes...)
	o.Version.AddFlags(fs, prefixes...)
}

// Validate 验证中间件顺序及各中间件配置。
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	known, seen := knownMiddleware(), map[string]bool{}
	for _, name := range o.Middleware {
		if !known[name] {
			errs = append(errs, &ConfigError{Field: "middleware", Message: "unknown middleware: " + name})
		}
		if seen[name] {
			errs = append(errs, &ConfigError{Field: "middleware", Message: "duplicate middleware in list: " + name})
		}
		seen[name] = true
	}

	sections := []struct {
		name string
		errs []error
	}{
		{MiddlewareRequestID, o.RequestID.Validate()},
		{MiddlewareCORS, o.CORS.Validate()},
		{MiddlewareTimeout, o.Timeout.Validate()},
		{"version", o.Version.Validate()},
	}
	for _, s := range sections {
		for _, err := range s.errs {
			errs = append(errs, &ConfigError{Field: s.name, Message: err.Error()})
		}
	}
	return errs
}

// Complete 填充缺省的子配置。
func (o *Options) Complete() error {
	if o.Middleware == nil {
		o.Middleware = DefaultMiddlewareOrder()
	}
	if o.Recovery == nil {
		o.Recovery = NewRecoveryOptions()
	}
	if o.RequestID == nil {
		o.RequestID = NewRequestIDOptions()
	}
	if o.Logger == nil {
		o.Logger = NewLoggerOptions()
	}
	if o.CORS == nil {
		o.CORS = NewCORSOptions()
	}
	if o.Timeout == nil {
		o.Timeout = NewTimeoutOptions()
	}
	if o.Version == nil {
		o.Version = NewVersionOptions()
	}
	return o.Version.Complete()
}

// Without 从启用列表中移除中间件。
func Without(name string) Option {
	return func(o *Options) {
		kept := o.Middleware[:0:0]
		for _, n := range o.Middleware {
			if n != name {
				kept = append(kept, n)
			}
		}
		o.Middleware = kept
	}
}

// WithCORS 设置允许的跨域来源。
func WithCORS(origins ...string) Option {
	return func(o *Options) {
		o.CORS.AllowOrigins = origins
	}
}

// ApplyOptions applies the given options.
func (o *Options) ApplyOptions(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}
