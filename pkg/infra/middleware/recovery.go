package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

// Recovery converts panics into an ErrPanic response and logs the stack.
func Recovery(opts *mwopts.RecoveryOptions) gin.HandlerFunc {
	if opts == nil {
		opts = mwopts.NewRecoveryOptions()
	}

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger.Errorw("panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c.Request.Context()),
					"panic", fmt.Sprint(r),
					"stack", string(stack),
				)

				e := errors.ErrPanic.WithMessage(fmt.Sprintf("panic: %v", r))
				if opts.EnableStackTrace {
					e = errors.ErrPanic.WithMessage(fmt.Sprintf("panic: %v\n%s", r, stack))
				}
				abort(c, e)
			}
		}()
		c.Next()
	}
}
