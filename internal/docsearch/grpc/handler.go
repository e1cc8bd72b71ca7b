// Package grpc serves the docsearch.v1 gRPC API on top of biz.Service.
package grpc

import (
	"bytes"
	"context"
	"io"
	"maps"
	"slices"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/biz"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/internal/model"
	docsearchv1 "github.com/Shreeshail-sp/docsearch/pkg/api/docsearch/v1"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/json"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/validator"
)

// Service is the subset of biz.Service the gRPC handlers depend on.
type Service interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*model.IndexResult, error)
	Search(ctx context.Context, query string, topK int) (*model.SearchResponse, error)
	Answer(ctx context.Context, query string, topK int) (*model.AnswerResult, error)
	Documents(ctx context.Context) (map[string]store.DocumentRecord, error)
	Document(ctx context.Context, filename string) (*store.DocumentRecord, error)
	Health(ctx context.Context) *biz.HealthReport
	Stats(ctx context.Context) (map[string]any, error)
}

// Handler implements docsearchv1.DocSearchServiceServer.
type Handler struct {
	docsearchv1.UnimplementedDocSearchServiceServer
	svc Service
}

var _ docsearchv1.DocSearchServiceServer = (*Handler)(nil)

// NewHandler creates a new gRPC handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register registers the docsearch service and a health service backed by
// Service.Health on s.
func Register(s grpc.ServiceRegistrar, svc Service) {
	docsearchv1.RegisterDocSearchServiceServer(s, NewHandler(svc))
	healthpb.RegisterHealthServer(s, &healthServer{svc: svc})
}

// Upload ingests one document sent in a single message.
func (h *Handler) Upload(ctx context.Context, req *docsearchv1.UploadRequest) (*docsearchv1.UploadResponse, error) {
	if req.Filename == "" {
		return nil, errors.ErrInvalidParam.WithMessage("filename is required")
	}

	result, err := h.svc.Upload(ctx, req.Filename, bytes.NewReader(req.Content))
	if err != nil {
		return nil, err
	}
	return &docsearchv1.UploadResponse{
		Status:        result.Status,
		Filename:      result.Filename,
		ChunksIndexed: int32(result.ChunksIndexed),
		VectorIndex:   result.VectorIndex,
	}, nil
}

// Search returns the top-k chunks for a query.
func (h *Handler) Search(ctx context.Context, req *docsearchv1.QueryRequest) (*docsearchv1.SearchResponse, error) {
	if err := validateTopK(req.TopK); err != nil {
		return nil, err
	}

	resp, err := h.svc.Search(ctx, req.Query, int(req.TopK))
	if err != nil {
		return nil, err
	}
	return &docsearchv1.SearchResponse{
		Query:   resp.Query,
		Results: toSearchResults(resp.Results),
		Count:   int32(resp.Count),
	}, nil
}

// Answer synthesizes an extractive answer with its sources.
func (h *Handler) Answer(ctx context.Context, req *docsearchv1.QueryRequest) (*docsearchv1.AnswerResponse, error) {
	if err := validateTopK(req.TopK); err != nil {
		return nil, err
	}

	result, err := h.svc.Answer(ctx, req.Query, int(req.TopK))
	if err != nil {
		return nil, err
	}
	sources := make([]*docsearchv1.Source, len(result.Sources))
	for i, s := range result.Sources {
		sources[i] = &docsearchv1.Source{Filename: s.Filename, Score: s.Score}
	}
	return &docsearchv1.AnswerResponse{
		Answer:     result.Answer,
		Sources:    sources,
		Confidence: result.Confidence,
		Chunks:     toSearchResults(result.Chunks),
	}, nil
}

// ListDocuments lists the registry sorted by filename.
func (h *Handler) ListDocuments(ctx context.Context, _ *emptypb.Empty) (*docsearchv1.ListDocumentsResponse, error) {
	docs, err := h.svc.Documents(ctx)
	if err != nil {
		return nil, err
	}
	resp := &docsearchv1.ListDocumentsResponse{Documents: make([]*docsearchv1.Document, 0, len(docs))}
	for _, name := range slices.Sorted(maps.Keys(docs)) {
		resp.Documents = append(resp.Documents, toDocument(name, docs[name]))
	}
	return resp, nil
}

// GetDocument returns one registry entry.
func (h *Handler) GetDocument(ctx context.Context, req *docsearchv1.GetDocumentRequest) (*docsearchv1.Document, error) {
	doc, err := h.svc.Document(ctx, req.Filename)
	if err != nil {
		return nil, err
	}
	return toDocument(req.Filename, *doc), nil
}

// GetStats returns the headline counters plus the full stats document as JSON.
func (h *Handler) GetStats(ctx context.Context, _ *emptypb.Empty) (*docsearchv1.StatsResponse, error) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		return nil, err
	}
	details, err := json.Marshal(stats)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}

	resp := &docsearchv1.StatsResponse{DetailsJSON: string(details)}
	resp.Index, _ = stats["index"].(string)
	resp.Metric, _ = stats["metric"].(string)
	resp.EmbedProvider, _ = stats["embed_provider"].(string)
	resp.Dimension = int32(toInt64(stats["dimension"]))
	resp.Documents = toInt64(stats["documents"])
	resp.Chunks = toInt64(stats["chunks"])
	return resp, nil
}

type topKParam struct {
	TopK int `validate:"omitempty,min=1,max=100"`
}

func validateTopK(topK int32) error {
	if verrs := validator.StructWithLang(&topKParam{TopK: int(topK)}, validator.LangEN); verrs != nil {
		return errors.ErrInvalidParam.WithMessage("top_k: " + verrs.First())
	}
	return nil
}

func toSearchResults(results []model.SearchResult) []*docsearchv1.SearchResult {
	out := make([]*docsearchv1.SearchResult, len(results))
	for i, r := range results {
		out[i] = &docsearchv1.SearchResult{
			Rank:     int32(r.Rank),
			Text:     r.Text,
			Filename: r.Filename,
			ChunkID:  int32(r.ChunkID),
			Score:    r.Score,
		}
	}
	return out
}

func toDocument(name string, rec store.DocumentRecord) *docsearchv1.Document {
	return &docsearchv1.Document{Filename: name, Path: rec.Path, Chunks: int32(rec.Chunks)}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// healthServer reports SERVING while every dependency check passes. The
// empty service name and docsearch.v1.DocSearchService are known.
type healthServer struct {
	healthpb.UnimplementedHealthServer
	svc Service
}

func (h *healthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if name := req.GetService(); name != "" && name != docsearchv1.ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", name)
	}
	resp := &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}
	if h.svc.Health(ctx).Status != biz.StatusHealthy {
		resp.Status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	return resp, nil
}
