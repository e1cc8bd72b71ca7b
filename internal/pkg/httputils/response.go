// Package httputils provides HTTP utility functions.
package httputils

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/Shreeshail-sp/docsearch/pkg/infra/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/response"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/validator"
)

// WriteResponse writes the response to the client.
// Errors are mapped to their errno; a passed deadline becomes 408 and any
// untyped error becomes ErrInternal. Messages follow Accept-Language.
func WriteResponse(c *gin.Context, err error, data any) {
	requestID := middleware.GetRequestID(c.Request.Context())

	if err != nil {
		e := ToErrno(err)
		if e.HTTPStatus() >= 500 {
			logger.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", requestID,
				"code", e.Code,
				"error", err.Error(),
			)
		}
		lang := validator.LangFromAcceptLanguage(c.GetHeader("Accept-Language"))
		resp := response.ErrWithLang(e, lang).WithRequestID(requestID)
		c.JSON(resp.HTTPStatus(), resp)
		return
	}

	if resp, ok := data.(*response.Response); ok {
		c.JSON(resp.HTTPStatus(), resp.WithRequestID(requestID))
		return
	}

	resp := response.Success(data).WithRequestID(requestID)
	c.JSON(resp.HTTPStatus(), resp)
}

// ToErrno maps err to the errno reported to clients.
func ToErrno(err error) *errors.Errno {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrRequestTimeout.WithCause(err)
	}
	return errors.FromError(err)
}

// WriteValidation writes the translated validation errors as ErrInvalidParam.
func WriteValidation(c *gin.Context, errs *validator.ValidationErrors) {
	WriteResponse(c, errors.ErrInvalidParam.WithMessage(errs.First()), nil)
}
