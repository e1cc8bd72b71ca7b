package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
)

// Timeout puts a deadline on the request context. Handlers observe it through
// ctx.Done and map context.DeadlineExceeded to 408 themselves; the middleware
// never writes a response.
func Timeout(opts *mwopts.TimeoutOptions) gin.HandlerFunc {
	if opts == nil {
		opts = mwopts.NewTimeoutOptions()
	}
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok || opts.Timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opts.Timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
