// Package middleware provides the gin middleware chain of the HTTP server.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Shreeshail-sp/docsearch/pkg/infra/tracing"
	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/response"
)

// Chain returns the enabled middleware in the configured order.
func Chain(opts *mwopts.Options) []gin.HandlerFunc {
	if opts == nil {
		opts = mwopts.NewOptions()
	}

	chain := make([]gin.HandlerFunc, 0, len(opts.Middleware))
	for _, name := range opts.Middleware {
		switch name {
		case mwopts.MiddlewareRecovery:
			chain = append(chain, Recovery(opts.Recovery))
		case mwopts.MiddlewareRequestID:
			chain = append(chain, RequestID(opts.RequestID))
		case mwopts.MiddlewareTracing:
			chain = append(chain, Tracing(TracerName))
		case mwopts.MiddlewareLogger:
			chain = append(chain, Logger(opts.Logger))
		case mwopts.MiddlewareCORS:
			chain = append(chain, CORS(opts.CORS))
		case mwopts.MiddlewareTimeout:
			chain = append(chain, Timeout(opts.Timeout))
		}
	}
	return chain
}

// abort writes the error envelope and stops the chain.
func abort(c *gin.Context, e *errors.Errno) {
	resp := response.Err(e).WithRequestID(GetRequestID(c.Request.Context()))
	c.AbortWithStatusJSON(resp.HTTPStatus(), resp)
}

// TraceID returns the trace id of the request, or "".
func TraceID(c *gin.Context) string {
	return tracing.TraceIDFromContext(c.Request.Context())
}
