package middleware

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

// 请求 ID 生成器类型。
const (
	GeneratorRandom = "random"
	GeneratorHex    = "hex"
	GeneratorULID   = "ulid"
)

// RequestIDOptions defines request ID middleware options.
type RequestIDOptions struct {
	Header string `json:"header" mapstructure:"header"`
	// GeneratorType 为 random/hex（32 位十六进制）或 ulid（26 字符，按时间排序）。
	GeneratorType string `json:"generator" mapstructure:"generator"`
}

// NewRequestIDOptions creates default request ID middleware options.
func NewRequestIDOptions() *RequestIDOptions {
	return &RequestIDOptions{
		Header:        "X-Request-ID",
		GeneratorType: GeneratorULID,
	}
}

// AddFlags adds flags for request ID options to the specified FlagSet.
func (o *RequestIDOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "middleware.request-id."
	fs.StringVar(&o.Header, p+"header", o.Header, "Request ID header name.")
	fs.StringVar(&o.GeneratorType, p+"generator", o.GeneratorType, "Request ID generator: random, hex or ulid.")
}

// Validate validates the request ID options.
func (o *RequestIDOptions) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Header == "" {
		errs = append(errs, errors.New("header name is required"))
	}
	switch o.GeneratorType {
	case "", GeneratorRandom, GeneratorHex, GeneratorULID:
	default:
		errs = append(errs, errors.New("generator must be 'random', 'hex' or 'ulid'"))
	}
	return errs
}
