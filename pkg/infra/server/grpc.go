package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"sync"

	"github.com/kart-io/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcmw "github.com/Shreeshail-sp/docsearch/pkg/infra/middleware/grpc"
	grpcopts "github.com/Shreeshail-sp/docsearch/pkg/options/grpc"
)

// GRPCServer serves gRPC services registered through RegisterService.
type GRPCServer struct {
	opts   *grpcopts.Options
	server *grpc.Server

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

var _ Runnable = (*GRPCServer)(nil)

// NewGRPCServer creates a grpc.Server with message size limits and the
// recovery, request id, tracing, logging, timeout and errno interceptors.
// Extra interceptors run after the built-in chain.
func NewGRPCServer(opts *grpcopts.Options, extra ...grpc.UnaryServerInterceptor) *GRPCServer {
	if opts == nil {
		opts = grpcopts.NewOptions()
	}

	chain := append([]grpc.UnaryServerInterceptor{
		grpcmw.UnaryRecovery(),
		grpcmw.UnaryRequestID(),
		grpcmw.UnaryTracing(grpcmw.TracerName),
		grpcmw.UnaryLogging(),
		grpcmw.UnaryTimeout(opts.Timeout),
		grpcmw.UnaryErrno(),
	}, extra...)

	server := grpc.NewServer(
		grpc.MaxRecvMsgSize(opts.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(opts.MaxSendMsgSize),
		grpc.ChainUnaryInterceptor(chain...),
	)
	if opts.EnableReflection {
		reflection.Register(server)
	}

	return &GRPCServer{opts: opts, server: server}
}

// Name returns the server name.
func (s *GRPCServer) Name() string {
	return "grpc"
}

// RegisterService registers a service implementation. It must be called
// before Start.
func (s *GRPCServer) RegisterService(desc *grpc.ServiceDesc, impl any) {
	s.server.RegisterService(desc, impl)
}

// Server returns the underlying grpc.Server.
func (s *GRPCServer) Server() *grpc.Server {
	return s.server
}

// Addr returns the bound address once started, otherwise the configured one.
func (s *GRPCServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Start binds the listen address and serves in the background. Bind errors
// are returned synchronously.
func (s *GRPCServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return fmt.Errorf("grpc server already started")
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	s.listener = ln
	s.done = make(chan struct{})

	srv, done := s.server, s.done
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, grpc.ErrServerStopped) {
			logger.Errorw("gRPC server stopped unexpectedly", "addr", ln.Addr().String(), "error", err.Error())
		}
	}()

	logger.Infow("gRPC server listening", "addr", ln.Addr().String(), "reflection", s.opts.EnableReflection)
	return nil
}

// Stop drains in-flight calls and falls back to a hard stop when ctx expires.
func (s *GRPCServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
	<-done
	return nil
}
