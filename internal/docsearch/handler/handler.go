// Package handler provides HTTP handlers for the docsearch service.
package handler

import (
	"context"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/biz"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/metrics"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/internal/model"
	"github.com/Shreeshail-sp/docsearch/internal/pkg/httputils"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/validator"
)

// MetricsNamespace prefixes every exported metric name.
const MetricsNamespace = "docsearch"

// Service is the subset of biz.Service the handlers depend on.
type Service interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*model.IndexResult, error)
	Search(ctx context.Context, query string, topK int) (*model.SearchResponse, error)
	Answer(ctx context.Context, query string, topK int) (*model.AnswerResult, error)
	Documents(ctx context.Context) (map[string]store.DocumentRecord, error)
	Document(ctx context.Context, filename string) (*store.DocumentRecord, error)
	Health(ctx context.Context) *biz.HealthReport
	Stats(ctx context.Context) (map[string]any, error)
	Metrics() *metrics.Metrics
}

// Config holds handler limits.
type Config struct {
	// MaxUploadSize caps the multipart body in bytes. Zero disables the cap.
	MaxUploadSize int64
	// QueryTimeout bounds a single search or answer call. Zero disables it.
	QueryTimeout time.Duration
}

// DocSearchHandler handles docsearch HTTP requests.
type DocSearchHandler struct {
	svc    Service
	config Config
}

// NewDocSearchHandler creates a new DocSearchHandler.
func NewDocSearchHandler(svc Service, config Config) *DocSearchHandler {
	return &DocSearchHandler{svc: svc, config: config}
}

// QueryRequest is the body of /search and /answer.
type QueryRequest struct {
	// Query is the natural-language question.
	Query string `json:"query" example:"what is the refund policy"`
	// TopK overrides the default number of retrieved chunks.
	TopK int `json:"top_k,omitempty" validate:"omitempty,min=1,max=100" example:"5"`
}

// UploadResponse is the data returned by /upload.
type UploadResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Details *model.IndexResult `json:"details"`
}

// Upload ingests one multipart file.
//
//	@Summary		Upload a document
//	@Description	Saves the file, extracts its text, chunks it, and indexes the chunks.
//	@Tags			documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Document (.pdf, .docx, .txt)"
//	@Success		200		{object}	response.Response{data=UploadResponse}
//	@Failure		400		{object}	response.Response
//	@Failure		413		{object}	response.Response
//	@Failure		500		{object}	response.Response
//	@Router			/upload [post]
func (h *DocSearchHandler) Upload(c *gin.Context) {
	if h.config.MaxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxUploadSize)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httputils.WriteResponse(c, formFileError(err), nil)
		return
	}

	result, err := h.ingest(c.Request.Context(), fh)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, &UploadResponse{
		Status:  result.Status,
		Message: "Indexed " + result.Filename,
		Details: result,
	})
}

func (h *DocSearchHandler) ingest(ctx context.Context, fh *multipart.FileHeader) (*model.IndexResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.ErrBind.WithCause(err)
	}
	defer f.Close()

	return h.svc.Upload(ctx, filepath.Base(fh.Filename), f)
}

func formFileError(err error) error {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.ErrPayloadLarge.WithCause(err)
	}
	return errors.ErrBind.WithMessage("multipart field \"file\" is required").WithCause(err)
}

// Search returns ranked chunks for a query.
//
//	@Summary		Semantic search
//	@Tags			query
//	@Accept			json
//	@Produce		json
//	@Param			request	body		QueryRequest	true	"Query"
//	@Success		200		{object}	response.Response{data=model.SearchResponse}
//	@Failure		400		{object}	response.Response
//	@Failure		408		{object}	response.Response
//	@Router			/search [post]
func (h *DocSearchHandler) Search(c *gin.Context) {
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(c.Request.Context())
	defer cancel()

	resp, err := h.svc.Search(ctx, req.Query, req.TopK)
	httputils.WriteResponse(c, err, resp)
}

// Answer synthesizes an extractive answer for a query.
//
//	@Summary		Extractive answer
//	@Description	Runs one retrieval and builds an answer from the most relevant sentences.
//	@Tags			query
//	@Accept			json
//	@Produce		json
//	@Param			request	body		QueryRequest	true	"Query"
//	@Success		200		{object}	response.Response{data=model.AnswerResult}
//	@Failure		400		{object}	response.Response
//	@Failure		408		{object}	response.Response
//	@Router			/answer [post]
func (h *DocSearchHandler) Answer(c *gin.Context) {
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(c.Request.Context())
	defer cancel()

	result, err := h.svc.Answer(ctx, req.Query, req.TopK)
	httputils.WriteResponse(c, err, result)
}

func (h *DocSearchHandler) bindQuery(c *gin.Context) (*QueryRequest, bool) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrBind.WithCause(err), nil)
		return nil, false
	}
	lang := validator.LangFromAcceptLanguage(c.GetHeader("Accept-Language"))
	if verrs := validator.StructWithLang(&req, lang); verrs != nil {
		httputils.WriteValidation(c, verrs)
		return nil, false
	}
	return &req, true
}

func (h *DocSearchHandler) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.config.QueryTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.config.QueryTimeout)
}

// Documents lists the document registry.
//
//	@Summary	List indexed documents
//	@Tags		documents
//	@Produce	json
//	@Success	200	{object}	response.Response{data=map[string]store.DocumentRecord}
//	@Router		/documents [get]
func (h *DocSearchHandler) Documents(c *gin.Context) {
	docs, err := h.svc.Documents(c.Request.Context())
	httputils.WriteResponse(c, err, docs)
}

// Document returns one registry entry.
//
//	@Summary	Get an indexed document
//	@Tags		documents
//	@Produce	json
//	@Param		filename	path		string	true	"File name"
//	@Success	200			{object}	response.Response{data=store.DocumentRecord}
//	@Failure	404			{object}	response.Response
//	@Router		/documents/{filename} [get]
func (h *DocSearchHandler) Document(c *gin.Context) {
	doc, err := h.svc.Document(c.Request.Context(), c.Param("filename"))
	httputils.WriteResponse(c, err, doc)
}

// Health reports dependency status. A degraded service answers 503.
//
//	@Summary	Health check
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	biz.HealthReport
//	@Failure	503	{object}	biz.HealthReport
//	@Router		/health [get]
func (h *DocSearchHandler) Health(c *gin.Context) {
	report := h.svc.Health(c.Request.Context())
	status := http.StatusOK
	if report.Status != biz.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Stats returns the metrics snapshot and store counts.
//
//	@Summary	Service statistics
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	response.Response{data=map[string]any}
//	@Router		/stats [get]
func (h *DocSearchHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	httputils.WriteResponse(c, err, stats)
}

// Metrics exports the counters in Prometheus text format.
//
//	@Summary	Prometheus metrics
//	@Tags		system
//	@Produce	plain
//	@Success	200	{string}	string
//	@Router		/metrics [get]
func (h *DocSearchHandler) Metrics(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(h.svc.Metrics().Export(MetricsNamespace)))
}
