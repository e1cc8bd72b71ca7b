package middleware

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

// VersionOptions contains version endpoint configuration.
type VersionOptions struct {
	// Enabled enables the version endpoint.
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Path specifies the version endpoint path.
	Path string `json:"path" mapstructure:"path"`
	// HideDetails hides sensitive build details (commit hash, build date).
	HideDetails bool `json:"hide-details" mapstructure:"hide-details"`
}

// NewVersionOptions creates default version options.
func NewVersionOptions() *VersionOptions {
	return &VersionOptions{
		Enabled: true,
		Path:    "/version",
	}
}

// Validate validates version options.
func (o *VersionOptions) Validate() []error {
	if o == nil {
		return nil
	}
	if o.Enabled && o.Path != "" && o.Path[0] != '/' {
		return []error{errors.New("path must start with '/'")}
	}
	return nil
}

// AddFlags adds flags for version options to the specified FlagSet.
func (o *VersionOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "middleware.version."
	fs.BoolVar(&o.Enabled, p+"enabled", o.Enabled, "Enable version endpoint.")
	fs.StringVar(&o.Path, p+"path", o.Path, "Version endpoint path.")
	fs.BoolVar(&o.HideDetails, p+"hide-details", o.HideDetails, "Hide build details in version response.")
}

// Complete completes version options with defaults.
func (o *VersionOptions) Complete() error {
	if o.Path == "" {
		o.Path = "/version"
	}
	return nil
}
