// Package milvusopts provides options for the Milvus vector index backend.
package milvusopts

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Consistency levels accepted by milvus.consistency.
const (
	ConsistencyStrong     = "strong"
	ConsistencySession    = "session"
	ConsistencyBounded    = "bounded"
	ConsistencyEventually = "eventually"
)

// Options contains Milvus client configuration.
type Options struct {
	// Address is the Milvus server address (host:port).
	Address  string `json:"address" mapstructure:"address"`
	Database string `json:"database" mapstructure:"database"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"-" mapstructure:"password"`

	// Timeout bounds the initial connection.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Consistency is the read consistency level for searches. Strong makes a
	// just-uploaded document searchable immediately.
	Consistency string `json:"consistency" mapstructure:"consistency"`

	// FlushOnWrite seals segments after every upload.
	FlushOnWrite bool `json:"flush-on-write" mapstructure:"flush-on-write"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Address:      "localhost:19530",
		Database:     "default",
		Timeout:      30 * time.Second,
		Consistency:  ConsistencyStrong,
		FlushOnWrite: true,
	}
}

// Complete reads the password from MILVUS_PASSWORD and normalizes the
// consistency level.
func (o *Options) Complete() error {
	if o.Password == "" {
		o.Password = os.Getenv("MILVUS_PASSWORD")
	}
	o.Consistency = strings.ToLower(strings.TrimSpace(o.Consistency))
	return nil
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "milvus."
	fs.StringVar(&o.Address, p+"address", o.Address, "Milvus server address (host:port).")
	fs.StringVar(&o.Database, p+"database", o.Database, "Milvus database name.")
	fs.StringVar(&o.Username, p+"username", o.Username, "Milvus username.")
	fs.StringVar(&o.Password, p+"password", o.Password, "Milvus password. Prefer MILVUS_PASSWORD env var.")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "Connection timeout.")
	fs.StringVar(&o.Consistency, p+"consistency", o.Consistency, "Search consistency level (strong, session, bounded, eventually).")
	fs.BoolVar(&o.FlushOnWrite, p+"flush-on-write", o.FlushOnWrite, "Flush the collection after each upload.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Address == "" {
		errs = append(errs, fmt.Errorf("milvus.address is required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("milvus.timeout must be positive"))
	}
	switch o.Consistency {
	case ConsistencyStrong, ConsistencySession, ConsistencyBounded, ConsistencyEventually:
	default:
		errs = append(errs, fmt.Errorf("milvus.consistency %q is not supported", o.Consistency))
	}
	return errs
}
