// Package grpc provides unary server interceptors mirroring the HTTP
// middleware chain: panic recovery, request ids, tracing, access logs,
// timeouts and errno to status mapping.
package grpc

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	infralogger "github.com/Shreeshail-sp/docsearch/pkg/infra/logger"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/id"
)

// Metadata keys.
const (
	MetadataRequestID = "x-request-id"
	MetadataErrnoCode = "x-errno-code"
)

// TracerName is the tracer used for gRPC server spans.
const TracerName = "github.com/Shreeshail-sp/docsearch/pkg/infra/middleware/grpc"

// UnaryRecovery converts a handler panic into codes.Internal and logs the stack.
func UnaryRecovery() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("panic recovered",
					"method", info.FullMethod,
					"request_id", middleware.GetRequestID(ctx),
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
				resp, err = nil, ToStatus(ctx, errors.ErrPanic)
			}
		}()
		return handler(ctx, req)
	}
}

// UnaryRequestID reuses the x-request-id metadata or generates a ULID, echoes
// it in the response header and attaches it to the context and log fields.
func UnaryRequestID() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		var requestID string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(MetadataRequestID); len(v) > 0 {
				requestID = v[0]
			}
		}
		if requestID == "" {
			requestID = id.NewULID()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRequestID, requestID))

		ctx = middleware.WithRequestID(ctx, requestID)
		ctx = infralogger.WithRequestID(ctx, requestID)
		return handler(ctx, req)
	}
}

// UnaryTracing extracts W3C trace context from metadata and opens a server
// span per call carrying the rpc semantic attributes and the status code.
func UnaryTracing(tracerName string) grpc.UnaryServerInterceptor {
	if tracerName == "" {
		tracerName = TracerName
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			ctx = otel.GetTextMapPropagator().Extract(ctx, metadataCarrier(md))
		}

		service, method := splitMethod(info.FullMethod)
		ctx, span := otel.Tracer(tracerName).Start(ctx, strings.TrimPrefix(info.FullMethod, "/"),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.RPCSystemGRPC,
				semconv.RPCService(service),
				semconv.RPCMethod(method),
			),
		)
		defer span.End()

		if requestID := middleware.GetRequestID(ctx); requestID != "" {
			span.SetAttributes(attribute.String("rpc.request_id", requestID))
		}

		resp, err := handler(infralogger.WithTraceContext(ctx), req)

		st, _ := status.FromError(err)
		span.SetAttributes(semconv.RPCGRPCStatusCodeKey.Int(int(st.Code())))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, st.Message())
		}
		return resp, err
	}
}

// UnaryLogging writes one access log line per call. Server faults log at
// error level and client faults at warn level.
func UnaryLogging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		latency := time.Since(start)

		code := status.Code(err)
		fields := []any{
			"method", info.FullMethod,
			"code", code.String(),
			"latency", latency.String(),
			"latency_ms", latency.Milliseconds(),
		}
		if err != nil {
			fields = append(fields, "error", err.Error())
		}

		log := infralogger.GetLogger(ctx)
		switch code {
		case codes.OK:
			log.Infow("gRPC request", fields...)
		case codes.Internal, codes.Unavailable, codes.Unknown, codes.DataLoss:
			log.Errorw("gRPC request", fields...)
		default:
			log.Warnw("gRPC request", fields...)
		}
		return resp, err
	}
}

// UnaryTimeout bounds each call. A zero timeout leaves the context untouched.
func UnaryTimeout(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return handler(ctx, req)
	}
}

// UnaryErrno maps handler errors to gRPC status errors.
func UnaryErrno() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, ToStatus(ctx, err)
		}
		return resp, nil
	}
}

// ToStatus converts err into a status error. Status errors pass through,
// context errors keep their gRPC meaning, and everything else goes through
// errors.FromError. The errno code is sent as the x-errno-code trailer.
func ToStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, errors.ErrRequestTimeout.MessageEN)
	case stderrors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}

	e := errors.FromError(err)
	_ = grpc.SetTrailer(ctx, metadata.Pairs(MetadataErrnoCode, strconv.Itoa(e.Code)))
	return status.Error(CodeFromHTTP(e.HTTPStatus()), e.MessageEN)
}

// CodeFromHTTP maps an errno HTTP status onto the closest gRPC code.
func CodeFromHTTP(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusOK:
		return codes.OK
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusMethodNotAllowed:
		return codes.Unimplemented
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	case http.StatusRequestEntityTooLarge:
		return codes.ResourceExhausted
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func splitMethod(fullMethod string) (service, method string) {
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndex(fullMethod, "/"); i >= 0 {
		return fullMethod[:i], fullMethod[i+1:]
	}
	return "unknown", fullMethod
}

// metadataCarrier adapts incoming metadata to propagation.TextMapCarrier.
type metadataCarrier metadata.MD

func (c metadataCarrier) Get(key string) string {
	if v := metadata.MD(c).Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c metadataCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
