// Package mongodb provides MongoDB options.
package mongodb

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options defines configuration options for MongoDB.
type Options struct {
	URI                    string        `json:"-" mapstructure:"uri"`
	Database               string        `json:"database" mapstructure:"database"`
	ChunkCollection        string        `json:"chunk-collection" mapstructure:"chunk-collection"`
	DocumentCollection     string        `json:"document-collection" mapstructure:"document-collection"`
	MaxPoolSize            uint64        `json:"max-pool-size" mapstructure:"max-pool-size"`
	ConnectTimeout         time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`
	ServerSelectionTimeout time.Duration `json:"server-selection-timeout" mapstructure:"server-selection-timeout"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		URI:                    "mongodb://127.0.0.1:27017",
		Database:               "docsearch",
		ChunkCollection:        "chunks",
		DocumentCollection:     "documents",
		MaxPoolSize:            100,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
	}
}

// Complete reads the URI from MONGODB_URI when it is set.
func (o *Options) Complete() error {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		o.URI = uri
	}
	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if !strings.HasPrefix(o.URI, "mongodb://") && !strings.HasPrefix(o.URI, "mongodb+srv://") {
		errs = append(errs, fmt.Errorf("mongodb.uri must start with mongodb:// or mongodb+srv://"))
	}
	if o.Database == "" {
		errs = append(errs, fmt.Errorf("mongodb.database is required"))
	}
	if o.ChunkCollection == "" || o.DocumentCollection == "" {
		errs = append(errs, fmt.Errorf("mongodb collection names are required"))
	}
	return errs
}

// AddFlags adds flags for MongoDB options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.URI, p+"mongodb.uri", o.URI, "MongoDB connection URI. Prefer MONGODB_URI env var for credentials.")
	fs.StringVar(&o.Database, p+"mongodb.database", o.Database, "MongoDB database name.")
	fs.StringVar(&o.ChunkCollection, p+"mongodb.chunk-collection", o.ChunkCollection, "Collection holding chunk records.")
	fs.StringVar(&o.DocumentCollection, p+"mongodb.document-collection", o.DocumentCollection, "Collection holding the document registry.")
	fs.Uint64Var(&o.MaxPoolSize, p+"mongodb.max-pool-size", o.MaxPoolSize, "MongoDB max pool size.")
	fs.DurationVar(&o.ConnectTimeout, p+"mongodb.connect-timeout", o.ConnectTimeout, "MongoDB connect timeout.")
	fs.DurationVar(&o.ServerSelectionTimeout, p+"mongodb.server-selection-timeout", o.ServerSelectionTimeout, "MongoDB server selection timeout.")
}
