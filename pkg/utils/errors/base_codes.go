package errors

import "net/http"

// OK is returned for successful operations.
var OK = &Errno{Code: 0, HTTP: http.StatusOK, MessageEN: "success", MessageZH: "成功"}

var (
	// 通用请求错误 (类别 01)
	ErrInvalidParam = Register(New(MakeCode(ServiceCommon, CategoryRequest, 1), http.StatusBadRequest, "Invalid parameter", "参数无效"))
	ErrBind         = Register(New(MakeCode(ServiceCommon, CategoryRequest, 2), http.StatusBadRequest, "Failed to bind request body", "请求体解析失败"))
	ErrPayloadLarge = Register(New(MakeCode(ServiceCommon, CategoryRequest, 3), http.StatusRequestEntityTooLarge, "Request body too large", "请求体过大"))

	// 资源错误 (类别 04)
	ErrNotFound      = Register(New(MakeCode(ServiceCommon, CategoryResource, 1), http.StatusNotFound, "Resource not found", "资源不存在"))
	ErrRouteNotFound = Register(New(MakeCode(ServiceCommon, CategoryResource, 2), http.StatusNotFound, "Route not found", "路由不存在"))

	ErrMethodNotAllowed = Register(New(MakeCode(ServiceCommon, CategoryResource, 3), http.StatusMethodNotAllowed, "Method not allowed", "请求方法不允许"))

	// 内部错误 (类别 07)
	ErrInternal = Register(New(MakeCode(ServiceCommon, CategoryInternal, 1), http.StatusInternalServerError, "Internal server error", "服务器内部错误"))
	ErrPanic    = Register(New(MakeCode(ServiceCommon, CategoryInternal, 2), http.StatusInternalServerError, "Internal server panic", "服务器内部异常"))

	// 超时错误 (类别 11)
	ErrRequestTimeout = Register(New(MakeCode(ServiceCommon, CategoryTimeout, 1), http.StatusRequestTimeout, "Request timeout", "请求超时"))
)
