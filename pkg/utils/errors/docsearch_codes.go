package errors

import "net/http"

// DocSearch 服务代码: 20 (业务服务范围 20-79)
// 错误码格式: AABBCCC

var (
	// 请求错误 (类别 01)
	ErrUnsupportedFormat  = Register(New(MakeCode(ServiceDocSearch, CategoryRequest, 1), http.StatusBadRequest, "Unsupported file format", "不支持的文件格式"))
	ErrNoContentExtracted = Register(New(MakeCode(ServiceDocSearch, CategoryRequest, 2), http.StatusBadRequest, "No text extracted from document", "未能从文档中提取文本"))
	ErrEmptyQuery         = Register(New(MakeCode(ServiceDocSearch, CategoryRequest, 3), http.StatusBadRequest, "Query must not be empty", "查询不能为空"))

	// 资源错误 (类别 04)
	ErrDocumentNotFound = Register(New(MakeCode(ServiceDocSearch, CategoryResource, 1), http.StatusNotFound, "Document not found", "文档不存在"))

	// 内部错误 (类别 07)
	ErrStoreIO     = Register(New(MakeCode(ServiceDocSearch, CategoryInternal, 1), http.StatusInternalServerError, "Local store read/write failed", "本地存储读写失败"))
	ErrExtractText = Register(New(MakeCode(ServiceDocSearch, CategoryInternal, 2), http.StatusInternalServerError, "Failed to extract document text", "文档文本提取失败"))

	// 外部能力错误 (类别 10)
	ErrEmbeddingFailure   = Register(New(MakeCode(ServiceDocSearch, CategoryNetwork, 1), http.StatusBadGateway, "Embedding service failed", "向量化服务失败"))
	ErrVectorIndexFailure = Register(New(MakeCode(ServiceDocSearch, CategoryNetwork, 2), http.StatusBadGateway, "Vector index failed", "向量索引失败"))

	// 配置错误 (类别 12)
	ErrChunkerConfig = Register(New(MakeCode(ServiceDocSearch, CategoryConfig, 1), http.StatusInternalServerError, "Chunk overlap must be smaller than chunk size", "分块重叠必须小于分块大小"))
)
