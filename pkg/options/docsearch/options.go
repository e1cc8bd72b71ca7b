// Package docsearch provides the chunking, retrieval and storage options of
// the document search service.
package docsearch

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/validator"
)

var _ options.IOptions = (*Options)(nil)

// Vector index backends.
const (
	VectorBackendEndee  = "endee"
	VectorBackendMilvus = "milvus"
	VectorBackendMemory = "memory"
)

// Chunk store and registry backends.
const (
	StoreBackendFile     = "file"
	StoreBackendDatabase = "database"
	StoreBackendMongoDB  = "mongodb"
)

// Options contains docsearch configuration.
type Options struct {
	// ChunkSize is the chunk window in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size" validate:"gt=0"`

	// ChunkOverlap is the number of characters shared by neighbouring chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap" validate:"gte=0,ltfield=ChunkSize"`

	// TopK is the default number of search results.
	TopK int `json:"top-k" mapstructure:"top-k" validate:"min=1,max=100"`

	// AnswerTopK is the default number of chunks an answer is built from.
	AnswerTopK int `json:"answer-top-k" mapstructure:"answer-top-k" validate:"min=1,max=100"`

	// IndexName is the vector index name.
	IndexName string `json:"index-name" mapstructure:"index-name" validate:"required,indexname"`

	// Metric is the similarity metric used when the index is created.
	Metric string `json:"metric" mapstructure:"metric" validate:"oneof=cosine l2 ip"`

	// DistanceMapping converts distance-only hits into scores: raw keeps the
	// value, cosine maps it to 1 - distance.
	DistanceMapping string `json:"distance-mapping" mapstructure:"distance-mapping" validate:"oneof=raw cosine"`

	// DataDir holds the chunk store and registry files.
	DataDir string `json:"data-dir" mapstructure:"data-dir" validate:"required"`

	// UploadDir holds uploaded source files.
	UploadDir string `json:"upload-dir" mapstructure:"upload-dir" validate:"required"`

	// VectorBackend selects the vector index implementation.
	VectorBackend string `json:"vector-backend" mapstructure:"vector-backend" validate:"oneof=endee milvus memory"`

	// StoreBackend selects the chunk store and registry implementation.
	StoreBackend string `json:"store-backend" mapstructure:"store-backend" validate:"oneof=file database mongodb"`

	// Formats lists the accepted upload extensions.
	Formats []string `json:"formats" mapstructure:"formats" validate:"min=1,dive,extension"`

	// QueryTimeout bounds each search or answer request.
	QueryTimeout time.Duration `json:"query-timeout" mapstructure:"query-timeout" validate:"gt=0"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:       500,
		ChunkOverlap:    50,
		TopK:            5,
		AnswerTopK:      3,
		IndexName:       "documents",
		Metric:          "cosine",
		DistanceMapping: "raw",
		DataDir:         "data",
		UploadDir:       "uploads",
		VectorBackend:   VectorBackendEndee,
		StoreBackend:    StoreBackendFile,
		Formats:         []string{".pdf", ".docx", ".txt"},
		QueryTimeout:    30 * time.Second,
	}
}

// ChunksFile is the flat chunk-id to chunk map used by the file store.
func (o *Options) ChunksFile() string {
	return filepath.Join(o.DataDir, "chunks_store.json")
}

// RegistryFile is the document registry used by the file store.
func (o *Options) RegistryFile() string {
	return filepath.Join(o.DataDir, "document_metadata.json")
}

// AddFlags adds flags for docsearch options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "docsearch."
	fs.IntVar(&o.ChunkSize, p+"chunk-size", o.ChunkSize, "Chunk size in characters.")
	fs.IntVar(&o.ChunkOverlap, p+"chunk-overlap", o.ChunkOverlap, "Characters shared by neighbouring chunks.")
	fs.IntVar(&o.TopK, p+"top-k", o.TopK, "Default number of search results.")
	fs.IntVar(&o.AnswerTopK, p+"answer-top-k", o.AnswerTopK, "Default number of chunks used to build an answer.")
	fs.StringVar(&o.IndexName, p+"index-name", o.IndexName, "Vector index name.")
	fs.StringVar(&o.Metric, p+"metric", o.Metric, "Similarity metric (cosine, l2, ip).")
	fs.StringVar(&o.DistanceMapping, p+"distance-mapping", o.DistanceMapping, "How distance-only hits become scores (raw, cosine).")
	fs.StringVar(&o.DataDir, p+"data-dir", o.DataDir, "Directory for the chunk store and registry files.")
	fs.StringVar(&o.UploadDir, p+"upload-dir", o.UploadDir, "Directory for uploaded files.")
	fs.StringVar(&o.VectorBackend, p+"vector-backend", o.VectorBackend, "Vector index backend (endee, milvus, memory).")
	fs.StringVar(&o.StoreBackend, p+"store-backend", o.StoreBackend, "Chunk store backend (file, database, mongodb).")
	fs.StringSliceVar(&o.Formats, p+"formats", o.Formats, "Accepted upload extensions.")
	fs.DurationVar(&o.QueryTimeout, p+"query-timeout", o.QueryTimeout, "Timeout for each search or answer request.")
}

// Validate validates the docsearch options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	errs := validator.StructWithLang(o, validator.LangEN).Errs()
	if o.UploadDir != "" && filepath.Clean(o.UploadDir) == filepath.Clean(o.DataDir) {
		errs = append(errs, fmt.Errorf("docsearch.upload-dir must differ from docsearch.data-dir"))
	}
	return errs
}

// Complete normalizes names and extensions.
func (o *Options) Complete() error {
	o.Metric = strings.ToLower(strings.TrimSpace(o.Metric))
	o.DistanceMapping = strings.ToLower(strings.TrimSpace(o.DistanceMapping))
	o.VectorBackend = strings.ToLower(strings.TrimSpace(o.VectorBackend))
	o.StoreBackend = strings.ToLower(strings.TrimSpace(o.StoreBackend))
	for i, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !strings.HasPrefix(f, ".") {
			f = "." + f
		}
		o.Formats[i] = f
	}
	return nil
}
