// Package options contains flags and options for initializing the docsearch server.
package options

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch"
	cliflag "github.com/Shreeshail-sp/docsearch/pkg/app/cliflag"
	cacheopts "github.com/Shreeshail-sp/docsearch/pkg/options/cache"
	dbopts "github.com/Shreeshail-sp/docsearch/pkg/options/database"
	docsearchopts "github.com/Shreeshail-sp/docsearch/pkg/options/docsearch"
	embeddingopts "github.com/Shreeshail-sp/docsearch/pkg/options/embedding"
	endeeopts "github.com/Shreeshail-sp/docsearch/pkg/options/endee"
	grpcopts "github.com/Shreeshail-sp/docsearch/pkg/options/grpc"
	httpopts "github.com/Shreeshail-sp/docsearch/pkg/options/http"
	logopts "github.com/Shreeshail-sp/docsearch/pkg/options/logger"
	middlewareopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	milvusopts "github.com/Shreeshail-sp/docsearch/pkg/options/milvus"
	mongoopts "github.com/Shreeshail-sp/docsearch/pkg/options/mongodb"
	tracingopts "github.com/Shreeshail-sp/docsearch/pkg/options/tracing"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// GRPCOptions contains gRPC server configuration.
	GRPCOptions *grpcopts.Options `json:"grpc" mapstructure:"grpc"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// MiddlewareOptions contains the middleware chain configuration.
	MiddlewareOptions *middlewareopts.Options `json:"middleware" mapstructure:"middleware"`

	// DocSearchOptions contains chunking, retrieval and storage layout settings.
	DocSearchOptions *docsearchopts.Options `json:"docsearch" mapstructure:"docsearch"`

	// EmbeddingOptions contains embedding provider configuration.
	EmbeddingOptions *embeddingopts.Options `json:"embedding" mapstructure:"embedding"`

	// EndeeOptions contains Endee vector database configuration.
	EndeeOptions *endeeopts.Options `json:"endee" mapstructure:"endee"`

	// MilvusOptions contains Milvus vector database configuration.
	MilvusOptions *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// DatabaseOptions contains the SQL chunk store configuration.
	DatabaseOptions *dbopts.Options `json:"database" mapstructure:"database"`

	// MongoDBOptions contains the MongoDB chunk store configuration.
	MongoDBOptions *mongoopts.Options `json:"mongodb" mapstructure:"mongodb"`

	// CacheOptions contains cache configuration.
	CacheOptions *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// TracingOptions contains OpenTelemetry configuration.
	TracingOptions *tracingopts.Options `json:"tracing" mapstructure:"tracing"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	httpOpts := httpopts.NewOptions()
	httpOpts.Addr = ":8000"

	return &ServerOptions{
		HTTPOptions:       httpOpts,
		GRPCOptions:       grpcopts.NewOptions(),
		LogOptions:        logopts.NewOptions(),
		MiddlewareOptions: middlewareopts.NewOptions(),
		DocSearchOptions:  docsearchopts.NewOptions(),
		EmbeddingOptions:  embeddingopts.NewOptions(),
		EndeeOptions:      endeeopts.NewOptions(),
		MilvusOptions:     milvusopts.NewOptions(),
		DatabaseOptions:   dbopts.NewOptions(),
		MongoDBOptions:    mongoopts.NewOptions(),
		CacheOptions:      cacheopts.NewOptions(),
		TracingOptions:    tracingopts.NewOptions(),
	}
}

// Flags returns flags for a specific server by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.HTTPOptions.AddFlags(fss.FlagSet("http"))
	o.GRPCOptions.AddFlags(fss.FlagSet("grpc"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.MiddlewareOptions.AddFlags(fss.FlagSet("middleware"))
	o.DocSearchOptions.AddFlags(fss.FlagSet("docsearch"))
	o.EmbeddingOptions.AddFlags(fss.FlagSet("embedding"))
	o.EndeeOptions.AddFlags(fss.FlagSet("endee"))
	o.MilvusOptions.AddFlags(fss.FlagSet("milvus"))
	o.DatabaseOptions.AddFlags(fss.FlagSet("database"))
	o.MongoDBOptions.AddFlags(fss.FlagSet("mongodb"))
	o.CacheOptions.AddFlags(fss.FlagSet("cache"))
	o.TracingOptions.AddFlags(fss.FlagSet("tracing"))
	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	steps := []struct {
		name     string
		complete func() error
	}{
		{"http", o.HTTPOptions.Complete},
		{"grpc", o.GRPCOptions.Complete},
		{"log", o.LogOptions.Complete},
		{"middleware", o.MiddlewareOptions.Complete},
		{"docsearch", o.DocSearchOptions.Complete},
		{"embedding", o.EmbeddingOptions.Complete},
		{"endee", o.EndeeOptions.Complete},
		{"milvus", o.MilvusOptions.Complete},
		{"database", o.DatabaseOptions.Complete},
		{"mongodb", o.MongoDBOptions.Complete},
		{"cache", o.CacheOptions.Complete},
		{"tracing", o.TracingOptions.Complete},
	}
	for _, s := range steps {
		if err := s.complete(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid. Backend
// options are validated only when the backend is selected.
func (o *ServerOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.HTTPOptions.Validate()...)
	errs = append(errs, o.GRPCOptions.Validate()...)
	errs = append(errs, o.LogOptions.Validate()...)
	errs = append(errs, o.MiddlewareOptions.Validate()...)
	errs = append(errs, o.DocSearchOptions.Validate()...)
	errs = append(errs, o.EmbeddingOptions.Validate()...)
	errs = append(errs, o.CacheOptions.Validate()...)
	errs = append(errs, o.TracingOptions.Validate()...)

	switch o.DocSearchOptions.VectorBackend {
	case docsearchopts.VectorBackendMilvus:
		errs = append(errs, o.MilvusOptions.Validate()...)
	case docsearchopts.VectorBackendMemory:
	default:
		errs = append(errs, o.EndeeOptions.Validate()...)
	}

	switch o.DocSearchOptions.StoreBackend {
	case docsearchopts.StoreBackendDatabase:
		errs = append(errs, o.DatabaseOptions.Validate()...)
	case docsearchopts.StoreBackendMongoDB:
		errs = append(errs, o.MongoDBOptions.Validate()...)
	}

	return utilerrors.NewAggregate(errs)
}

// Config builds a docsearch.Config based on ServerOptions.
func (o *ServerOptions) Config() (*docsearch.Config, error) {
	return &docsearch.Config{
		HTTPOptions:       o.HTTPOptions,
		GRPCOptions:       o.GRPCOptions,
		LogOptions:        o.LogOptions,
		MiddlewareOptions: o.MiddlewareOptions,
		DocSearchOptions:  o.DocSearchOptions,
		EmbeddingOptions:  o.EmbeddingOptions,
		EndeeOptions:      o.EndeeOptions,
		MilvusOptions:     o.MilvusOptions,
		DatabaseOptions:   o.DatabaseOptions,
		MongoDBOptions:    o.MongoDBOptions,
		CacheOptions:      o.CacheOptions,
		TracingOptions:    o.TracingOptions,
	}, nil
}
