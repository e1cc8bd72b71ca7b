package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	milvusopts "github.com/Shreeshail-sp/docsearch/pkg/options/milvus"
)

const (
	// FieldID is the VARCHAR primary key holding the chunk id.
	FieldID = "id"
	// FieldEmbedding is the float vector field.
	FieldEmbedding = "embedding"

	maxIDLength = 512
)

// Client wraps the Milvus SDK client.
type Client struct {
	client *milvusclient.Client
	opts   *milvusopts.Options
}

// New creates a new Milvus client.
func New(ctx context.Context, opts *milvusopts.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("milvus options is nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid milvus options: %v", errs)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DBName:   opts.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	return &Client{
		client: c,
		opts:   opts,
	}, nil
}

// Close closes the Milvus client connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// MetricType maps a metric name to the Milvus metric type.
func MetricType(metric string) (entity.MetricType, error) {
	switch metric {
	case "cosine", "":
		return entity.COSINE, nil
	case "l2":
		return entity.L2, nil
	case "ip":
		return entity.IP, nil
	default:
		return "", fmt.Errorf("unsupported milvus metric %q", metric)
	}
}

func consistencyLevel(level string) entity.ConsistencyLevel {
	switch level {
	case milvusopts.ConsistencySession:
		return entity.ClSession
	case milvusopts.ConsistencyBounded:
		return entity.ClBounded
	case milvusopts.ConsistencyEventually:
		return entity.ClEventually
	default:
		return entity.ClStrong
	}
}

// HasCollection reports whether the collection exists.
func (c *Client) HasCollection(ctx context.Context, name string) (bool, error) {
	exists, err := c.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// CreateCollection creates a collection keyed by chunk id, builds an AUTOINDEX
// on the embedding field and loads it.
func (c *Client) CreateCollection(ctx context.Context, name string, dim int, metric entity.MetricType) error {
	exists, err := c.HasCollection(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	schema := entity.NewSchema().
		WithName(name).
		WithDescription("docsearch chunk embeddings").
		WithAutoID(false).
		WithField(entity.NewField().
			WithName(FieldID).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxIDLength).
			WithIsPrimaryKey(true)).
		WithField(entity.NewField().
			WithName(FieldEmbedding).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dim)))

	if err := c.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(name, schema)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	createIdxTask, err := c.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(name, FieldEmbedding, index.NewAutoIndex(metric)))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := createIdxTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for index creation: %w", err)
	}

	loadTask, err := c.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(name))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for collection loading: %w", err)
	}
	return nil
}

// Upsert writes vectors under ids, replacing existing rows. The collection
// is flushed afterwards when FlushOnWrite is set.
func (c *Client) Upsert(ctx context.Context, collection string, ids []string, vectors [][]float32) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}

	_, err := c.client.Upsert(ctx, milvusclient.NewColumnBasedInsertOption(collection,
		column.NewColumnVarChar(FieldID, ids),
		column.NewColumnFloatVector(FieldEmbedding, len(vectors[0]), vectors),
	))
	if err != nil {
		return fmt.Errorf("failed to upsert data: %w", err)
	}

	if !c.opts.FlushOnWrite {
		return nil
	}
	flushTask, err := c.client.Flush(ctx, milvusclient.NewFlushOption(collection))
	if err != nil {
		return fmt.Errorf("failed to flush collection: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for flush: %w", err)
	}
	return nil
}

// SearchResult represents a single search result.
type SearchResult struct {
	ID    string
	Score float32
}

// Search performs a vector similarity search. Results keep the server order.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error) {
	results, err := c.client.Search(ctx, milvusclient.NewSearchOption(
		collection,
		topK,
		[]entity.Vector{entity.FloatVector(vector)},
	).WithANNSField(FieldEmbedding).WithConsistencyLevel(consistencyLevel(c.opts.Consistency)))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	if len(results) == 0 {
		return []SearchResult{}, nil
	}

	rs := results[0]
	out := make([]SearchResult, 0, rs.ResultCount)
	for i := 0; i < rs.ResultCount; i++ {
		r := SearchResult{Score: rs.Scores[i]}
		switch ids := rs.IDs.(type) {
		case *column.ColumnVarChar:
			r.ID = ids.Data()[i]
		case *column.ColumnInt64:
			r.ID = strconv.FormatInt(ids.Data()[i], 10)
		}
		out = append(out, r)
	}
	return out, nil
}

// RowCount returns the number of entities in a collection.
func (c *Client) RowCount(ctx context.Context, collection string) (int64, error) {
	stats, err := c.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(collection))
	if err != nil {
		return 0, fmt.Errorf("failed to get collection stats: %w", err)
	}
	if val, ok := stats["row_count"]; ok {
		return strconv.ParseInt(val, 10, 64)
	}
	return 0, nil
}
