// Package app holds the contracts shared by command-line applications.
package app

import "github.com/Shreeshail-sp/docsearch/pkg/app/cliflag"

// CliOptions is the interface for CLI options.
// Any options struct implementing this interface can be used with App.
type CliOptions interface {
	// Flags returns the option flags grouped by section.
	Flags() cliflag.NamedFlagSets
	// Validate validates the options.
	Validate() error
	// Complete completes the options with defaults.
	Complete() error
}

// PrintableOptions is an optional interface for options that can print themselves.
type PrintableOptions interface {
	String() string
}
