// Package endee provides options for the Endee vector database REST client.
package endee

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains Endee client configuration.
type Options struct {
	// BaseURL is the Endee server root, e.g. http://localhost:8080.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// AuthToken is sent verbatim in the Authorization header when set.
	AuthToken string `json:"-" mapstructure:"auth-token"`

	// Timeout bounds every request.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		BaseURL: "http://localhost:8080",
		Timeout: 30 * time.Second,
	}
}

// Complete reads ENDEE_BASE_URL and ENDEE_AUTH_TOKEN from the environment.
func (o *Options) Complete() error {
	if v := os.Getenv("ENDEE_BASE_URL"); v != "" {
		o.BaseURL = v
	}
	if o.AuthToken == "" {
		o.AuthToken = os.Getenv("ENDEE_AUTH_TOKEN")
	}
	return nil
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if u, err := url.Parse(o.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("endee.base-url %q is not an absolute URL", o.BaseURL))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("endee.timeout must be positive"))
	}
	return errs
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.BaseURL, p+"endee.base-url", o.BaseURL, "Endee server base URL.")
	fs.StringVar(&o.AuthToken, p+"endee.auth-token", o.AuthToken, "Endee auth token. Prefer ENDEE_AUTH_TOKEN env var.")
	fs.DurationVar(&o.Timeout, p+"endee.timeout", o.Timeout, "Endee request timeout.")
}
