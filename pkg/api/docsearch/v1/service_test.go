package docsearchv1

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/known/emptypb"
)

type echoServer struct {
	UnimplementedDocSearchServiceServer
	lastUpload *UploadRequest
}

func (s *echoServer) Upload(_ context.Context, req *UploadRequest) (*UploadResponse, error) {
	s.lastUpload = req
	return &UploadResponse{Status: "success", Filename: req.Filename, ChunksIndexed: 3, VectorIndex: "indexed"}, nil
}

func (s *echoServer) Search(_ context.Context, req *QueryRequest) (*SearchResponse, error) {
	return &SearchResponse{
		Query: req.Query,
		Results: []*SearchResult{
			{Rank: 1, Text: "first", Filename: "a.txt", ChunkID: 0, Score: 0.9},
			{Rank: 2, Text: "second", Filename: "b.txt", ChunkID: int32(req.TopK), Score: 0.5},
		},
		Count: 2,
	}, nil
}

func (s *echoServer) Answer(_ context.Context, req *QueryRequest) (*AnswerResponse, error) {
	if req.Query == "" {
		return nil, status.Error(codes.InvalidArgument, "empty query")
	}
	return &AnswerResponse{
		Answer:     "Refunds within 30 days.",
		Sources:    []*Source{{Filename: "a.txt", Score: 0.9}},
		Confidence: 0.9,
	}, nil
}

func (s *echoServer) GetStats(context.Context, *emptypb.Empty) (*StatsResponse, error) {
	return &StatsResponse{Index: "documents", Dimension: 768, Documents: 2, Chunks: 7, DetailsJSON: `{"documents":2}`}, nil
}

func dial(t *testing.T, srv DocSearchServiceServer) DocSearchServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterDocSearchServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewDocSearchServiceClient(conn)
}

func TestFile_Registered(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName(ServiceName)
	require.NoError(t, err)
	svc, ok := d.(protoreflect.ServiceDescriptor)
	require.True(t, ok)
	assert.Equal(t, 6, svc.Methods().Len())
	assert.Equal(t, "google.protobuf.Empty", string(svc.Methods().ByName("GetStats").Input().FullName()))

	fd, err := protoregistry.GlobalFiles.FindFileByPath(FileName)
	require.NoError(t, err)
	assert.Equal(t, protoreflect.FullName(PackageName), fd.Package())
}

func TestClient_RoundTrip(t *testing.T) {
	srv := &echoServer{}
	client := dial(t, srv)
	ctx := context.Background()

	up, err := client.Upload(ctx, &UploadRequest{Filename: "a.txt", Content: []byte("hello")})
	require.NoError(t, err)
	assert.Equal(t, &UploadResponse{Status: "success", Filename: "a.txt", ChunksIndexed: 3, VectorIndex: "indexed"}, up)
	assert.Equal(t, []byte("hello"), srv.lastUpload.Content)

	search, err := client.Search(ctx, &QueryRequest{Query: "refunds", TopK: 4})
	require.NoError(t, err)
	assert.Equal(t, "refunds", search.Query)
	assert.Equal(t, int32(2), search.Count)
	require.Len(t, search.Results, 2)
	assert.Equal(t, "first", search.Results[0].Text)
	assert.Equal(t, int32(4), search.Results[1].ChunkID)
	assert.InDelta(t, 0.5, search.Results[1].Score, 1e-9)

	answer, err := client.Answer(ctx, &QueryRequest{Query: "refunds"})
	require.NoError(t, err)
	assert.Equal(t, "Refunds within 30 days.", answer.Answer)
	assert.Equal(t, []*Source{{Filename: "a.txt", Score: 0.9}}, answer.Sources)
	assert.Empty(t, answer.Chunks)

	stats, err := client.GetStats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Chunks)
	assert.Equal(t, int32(768), stats.Dimension)
	assert.JSONEq(t, `{"documents":2}`, stats.DetailsJSON)
}

func TestClient_Errors(t *testing.T) {
	client := dial(t, &echoServer{})
	ctx := context.Background()

	_, err := client.Answer(ctx, &QueryRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListDocuments(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestInterceptor_SeesGoRequest(t *testing.T) {
	var seen any
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(
		func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			seen = req
			assert.Equal(t, DocSearchServiceSearchFullMethod, info.FullMethod)
			return handler(ctx, req)
		},
	))
	RegisterDocSearchServiceServer(s, &echoServer{})
	go func() { _ = s.Serve(lis) }()
	defer s.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	_, err = NewDocSearchServiceClient(conn).Search(context.Background(), &QueryRequest{Query: "q", TopK: 2})
	require.NoError(t, err)
	assert.Equal(t, &QueryRequest{Query: "q", TopK: 2}, seen)
}
