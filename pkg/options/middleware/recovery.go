package middleware

import (
	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

// RecoveryOptions defines recovery middleware options.
type RecoveryOptions struct {
	// EnableStackTrace 是否在错误响应中返回堆栈。
	EnableStackTrace bool `json:"enable-stack-trace" mapstructure:"enable-stack-trace"`
}

// NewRecoveryOptions creates default recovery options.
func NewRecoveryOptions() *RecoveryOptions {
	return &RecoveryOptions{}
}

// AddFlags adds flags for recovery options to the specified FlagSet.
func (o *RecoveryOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.EnableStackTrace, options.Join(prefixes...)+"middleware.recovery.enable-stack-trace",
		o.EnableStackTrace, "Include the stack trace in panic responses.")
}
