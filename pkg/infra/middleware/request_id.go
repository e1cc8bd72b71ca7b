package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	infralogger "github.com/Shreeshail-sp/docsearch/pkg/infra/logger"
	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/id"
)

// HeaderXRequestID is the default request id header.
const HeaderXRequestID = "X-Request-ID"

// ContextKeyRequestID is the gin context key holding the request id.
const ContextKeyRequestID = "request_id"

type requestIDKey struct{}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request id from ctx, or "".
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestID reuses an incoming request id header or generates one, echoes it
// on the response and attaches it to the request context and its log fields.
func RequestID(opts *mwopts.RequestIDOptions) gin.HandlerFunc {
	if opts == nil {
		opts = mwopts.NewRequestIDOptions()
	}
	header := opts.Header
	if header == "" {
		header = HeaderXRequestID
	}
	generate := generator(opts.GeneratorType)

	return func(c *gin.Context) {
		requestID := c.GetHeader(header)
		if requestID == "" {
			requestID = generate()
		}

		c.Header(header, requestID)
		c.Set(ContextKeyRequestID, requestID)

		ctx := WithRequestID(c.Request.Context(), requestID)
		ctx = infralogger.WithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func generator(kind string) func() string {
	switch kind {
	case mwopts.GeneratorHex, mwopts.GeneratorRandom:
		return id.NewHex
	default:
		return id.NewULID
	}
}
