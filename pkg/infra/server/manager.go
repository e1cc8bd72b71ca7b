package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kart-io/logger"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Closer releases a resource during shutdown, after all servers stopped.
type Closer func(ctx context.Context) error

type namedCloser struct {
	name  string
	close Closer
}

// Manager starts servers in registration order and stops them in reverse.
type Manager struct {
	shutdownTimeout time.Duration

	mu      sync.Mutex
	servers []Runnable
	closers []namedCloser
	started []Runnable
}

// NewManager creates a new server manager.
func NewManager(shutdownTimeout time.Duration) *Manager {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	return &Manager{shutdownTimeout: shutdownTimeout}
}

// AddServer adds a server to the manager.
func (m *Manager) AddServer(s Runnable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers = append(m.servers, s)
}

// AddCloser registers a resource released after the servers stop. Closers
// run in reverse registration order.
func (m *Manager) AddCloser(name string, c Closer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closers = append(m.closers, namedCloser{name: name, close: c})
}

// Start starts all servers. When one fails, the ones already started are
// stopped before the error is returned.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.started) > 0 {
		return fmt.Errorf("server manager already started")
	}

	for _, s := range m.servers {
		if err := s.Start(ctx); err != nil {
			for i := len(m.started) - 1; i >= 0; i-- {
				_ = m.started[i].Stop(ctx)
			}
			m.started = nil
			return fmt.Errorf("failed to start server %s: %w", s.Name(), err)
		}
		m.started = append(m.started, s)
		logger.Infow("Server started", "name", s.Name())
	}
	return nil
}

// Stop stops the started servers in reverse order, then runs the closers.
// Every step runs even when an earlier one failed.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	started, closers := m.started, m.closers
	m.started, m.closers = nil, nil
	m.mu.Unlock()

	var errs []error
	for i := len(started) - 1; i >= 0; i-- {
		s := started[i]
		if err := s.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop server %s: %w", s.Name(), err))
			continue
		}
		logger.Infow("Server stopped", "name", s.Name())
	}
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := c.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", c.name, err))
		}
	}
	return utilerrors.NewAggregate(errs)
}

// Run starts all servers, blocks until ctx is cancelled and then shuts down
// within the shutdown timeout.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		m.runClosers()
		return err
	}

	<-ctx.Done()
	logger.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()
	return m.Stop(shutdownCtx)
}

func (m *Manager) runClosers() {
	ctx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()
	if err := m.Stop(ctx); err != nil {
		logger.Warnw("cleanup after failed start", "error", err.Error())
	}
}
