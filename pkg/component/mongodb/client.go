// Package mongodb provides the MongoDB client backing the chunk store and
// document registry.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	options "github.com/Shreeshail-sp/docsearch/pkg/options/mongodb"
)

// Client holds a connection bound to the docsearch database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	opts   *options.Options
}

// New connects to MongoDB and pings the primary before returning.
func New(ctx context.Context, opts *options.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("mongodb options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid mongodb options: %v", errs)
	}

	co := mongoopts.Client().
		ApplyURI(opts.URI).
		SetAppName("docsearch")
	if opts.MaxPoolSize > 0 {
		co.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		co.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		co.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}

	mc, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		_ = mc.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Client{client: mc, db: mc.Database(opts.Database), opts: opts}, nil
}

// Chunks returns the collection holding chunk records.
func (c *Client) Chunks() *mongo.Collection {
	return c.db.Collection(c.opts.ChunkCollection)
}

// Documents returns the collection holding the document registry.
func (c *Client) Documents() *mongo.Collection {
	return c.db.Collection(c.opts.DocumentCollection)
}

// Drop removes the whole database. Tests use it for cleanup.
func (c *Client) Drop(ctx context.Context) error {
	return c.db.Drop(ctx)
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
