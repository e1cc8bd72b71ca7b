// Package server runs the HTTP server and other long-lived components under
// one start/stop lifecycle.
package server

import "context"

// Lifecycle defines the lifecycle interface for servers.
type Lifecycle interface {
	// Start starts the server. It returns once the server accepts work.
	Start(ctx context.Context) error
	// Stop stops the server gracefully.
	Stop(ctx context.Context) error
}

// Runnable represents a component that can be started and stopped.
type Runnable interface {
	Lifecycle
	// Name returns the server name for identification.
	Name() string
}
