package middleware

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

// TimeoutOptions defines timeout middleware options.
type TimeoutOptions struct {
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	SkipPaths []string      `json:"skip-paths" mapstructure:"skip-paths"`
}

// NewTimeoutOptions creates default timeout options. Uploads run their own
// extraction and embedding, so they are skipped by default.
func NewTimeoutOptions() *TimeoutOptions {
	return &TimeoutOptions{
		Timeout:   60 * time.Second,
		SkipPaths: []string{"/upload"},
	}
}

// AddFlags adds flags for timeout options to the specified FlagSet.
func (o *TimeoutOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "middleware.timeout."
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "Request deadline applied to the handler context.")
	fs.StringSliceVar(&o.SkipPaths, p+"skip-paths", o.SkipPaths, "Paths without a request deadline.")
}

// Validate validates the timeout options.
func (o *TimeoutOptions) Validate() []error {
	if o == nil {
		return nil
	}
	if o.Timeout <= 0 {
		return []error{errors.New("timeout must be positive")}
	}
	return nil
}
