package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/Shreeshail-sp/docsearch/pkg/infra/middleware"
	httpopts "github.com/Shreeshail-sp/docsearch/pkg/options/http"
	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/response"
)

// HTTPServer serves a gin engine.
type HTTPServer struct {
	opts   *httpopts.Options
	engine *gin.Engine

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

var _ Runnable = (*HTTPServer)(nil)

// NewHTTPServer creates a gin engine with the configured middleware chain,
// JSON 404/405 handlers and the version route. Routes registered on Engine()
// afterwards inherit the chain.
func NewHTTPServer(opts *httpopts.Options, mwOpts *mwopts.Options) *HTTPServer {
	if opts == nil {
		opts = httpopts.NewOptions()
	}
	if mwOpts == nil {
		mwOpts = mwopts.NewOptions()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(middleware.Chain(mwOpts)...)

	engine.NoRoute(func(c *gin.Context) {
		writeErr(c, errors.ErrRouteNotFound)
	})
	engine.NoMethod(func(c *gin.Context) {
		writeErr(c, errors.ErrMethodNotAllowed)
	})
	middleware.RegisterVersionRoutes(engine, mwOpts.Version)

	return &HTTPServer{opts: opts, engine: engine}
}

func writeErr(c *gin.Context, e *errors.Errno) {
	resp := response.Err(e).WithRequestID(middleware.GetRequestID(c.Request.Context()))
	c.JSON(resp.HTTPStatus(), resp)
}

// Name returns the server name.
func (s *HTTPServer) Name() string {
	return "http[gin]"
}

// Engine returns the underlying gin.Engine.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the bound address once started, otherwise the configured one.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Start binds the listen address and serves in the background. Bind errors
// are returned synchronously.
func (s *HTTPServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return fmt.Errorf("http server already started")
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}

	s.listener = ln
	s.done = make(chan struct{})
	s.server = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	srv, done := s.server, s.done
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Errorw("HTTP server stopped unexpectedly", "addr", ln.Addr().String(), "error", err.Error())
		}
	}()

	logger.Infow("HTTP server listening", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the server down and waits for the serve loop to exit.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.server, s.done
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
