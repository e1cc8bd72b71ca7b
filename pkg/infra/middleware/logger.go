package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	infralogger "github.com/Shreeshail-sp/docsearch/pkg/infra/logger"
	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
)

// Logger writes one access log line per request through the context logger,
// so request and trace ids are attached. Server errors log at error level and
// client errors at warn level.
func Logger(opts *mwopts.LoggerOptions) gin.HandlerFunc {
	if opts == nil {
		opts = mwopts.NewLoggerOptions()
	}
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		log := infralogger.GetLogger(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("HTTP request", fields...)
		default:
			log.Infow("HTTP request", fields...)
		}
	}
}
