package docsearchv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Full method names.
const (
	DocSearchServiceUploadFullMethod        = "/" + ServiceName + "/Upload"
	DocSearchServiceSearchFullMethod        = "/" + ServiceName + "/Search"
	DocSearchServiceAnswerFullMethod        = "/" + ServiceName + "/Answer"
	DocSearchServiceListDocumentsFullMethod = "/" + ServiceName + "/ListDocuments"
	DocSearchServiceGetDocumentFullMethod   = "/" + ServiceName + "/GetDocument"
	DocSearchServiceGetStatsFullMethod      = "/" + ServiceName + "/GetStats"
)

// DocSearchServiceServer is the server API for DocSearchService.
type DocSearchServiceServer interface {
	Upload(context.Context, *UploadRequest) (*UploadResponse, error)
	Search(context.Context, *QueryRequest) (*SearchResponse, error)
	Answer(context.Context, *QueryRequest) (*AnswerResponse, error)
	ListDocuments(context.Context, *emptypb.Empty) (*ListDocumentsResponse, error)
	GetDocument(context.Context, *GetDocumentRequest) (*Document, error)
	GetStats(context.Context, *emptypb.Empty) (*StatsResponse, error)
}

// UnimplementedDocSearchServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedDocSearchServiceServer struct{}

func (UnimplementedDocSearchServiceServer) Upload(context.Context, *UploadRequest) (*UploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Upload not implemented")
}

func (UnimplementedDocSearchServiceServer) Search(context.Context, *QueryRequest) (*SearchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Search not implemented")
}

func (UnimplementedDocSearchServiceServer) Answer(context.Context, *QueryRequest) (*AnswerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Answer not implemented")
}

func (UnimplementedDocSearchServiceServer) ListDocuments(context.Context, *emptypb.Empty) (*ListDocumentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDocuments not implemented")
}

func (UnimplementedDocSearchServiceServer) GetDocument(context.Context, *GetDocumentRequest) (*Document, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDocument not implemented")
}

func (UnimplementedDocSearchServiceServer) GetStats(context.Context, *emptypb.Empty) (*StatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}

// RegisterDocSearchServiceServer registers srv on s.
func RegisterDocSearchServiceServer(s grpc.ServiceRegistrar, srv DocSearchServiceServer) {
	s.RegisterService(&DocSearchServiceDesc, srv)
}

// DocSearchServiceDesc is the grpc.ServiceDesc for DocSearchService.
var DocSearchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocSearchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Upload", dynamicIn(uploadRequestDesc, uploadRequestFrom),
			DocSearchServiceServer.Upload, (*UploadResponse).toMessage),
		unary("Search", dynamicIn(queryRequestDesc, queryRequestFrom),
			DocSearchServiceServer.Search, (*SearchResponse).toMessage),
		unary("Answer", dynamicIn(queryRequestDesc, queryRequestFrom),
			DocSearchServiceServer.Answer, (*AnswerResponse).toMessage),
		unary("ListDocuments", emptyIn,
			DocSearchServiceServer.ListDocuments, (*ListDocumentsResponse).toMessage),
		unary("GetDocument", dynamicIn(getDocumentRequestDesc, getDocumentRequestFrom),
			DocSearchServiceServer.GetDocument, (*Document).toMessage),
		unary("GetStats", emptyIn,
			DocSearchServiceServer.GetStats, (*StatsResponse).toMessage),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}

// input allocates a wire message and converts it once decoded.
type input[Req any] struct {
	alloc   func() proto.Message
	convert func(proto.Message) Req
}

func dynamicIn[Req any](desc protoreflect.MessageDescriptor, from func(protoreflect.Message) Req) input[Req] {
	return input[Req]{
		alloc:   func() proto.Message { return dynamicpb.NewMessage(desc) },
		convert: func(m proto.Message) Req { return from(m.ProtoReflect()) },
	}
}

var emptyIn = input[*emptypb.Empty]{
	alloc:   func() proto.Message { return new(emptypb.Empty) },
	convert: func(m proto.Message) *emptypb.Empty { return m.(*emptypb.Empty) },
}

// unary builds the method handler in the shape protoc-gen-go-grpc emits.
// Interceptors see the Go request struct; the reply is converted back to a
// wire message before it leaves the handler chain.
func unary[Req, Resp any](
	name string,
	in input[Req],
	call func(DocSearchServiceServer, context.Context, Req) (Resp, error),
	out func(Resp) protoreflect.Message,
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			msg := in.alloc()
			if err := dec(msg); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				resp, err := call(srv.(DocSearchServiceServer), ctx, req.(Req))
				if err != nil {
					return nil, err
				}
				return out(resp).Interface(), nil
			}
			req := in.convert(msg)
			if interceptor == nil {
				return handler(ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, req, info, handler)
		},
	}
}

// DocSearchServiceClient is the client API for DocSearchService.
type DocSearchServiceClient interface {
	Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadResponse, error)
	Search(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*SearchResponse, error)
	Answer(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*AnswerResponse, error)
	ListDocuments(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListDocumentsResponse, error)
	GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*Document, error)
	GetStats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StatsResponse, error)
}

type docSearchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDocSearchServiceClient creates a client over cc.
func NewDocSearchServiceClient(cc grpc.ClientConnInterface) DocSearchServiceClient {
	return &docSearchServiceClient{cc: cc}
}

func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in proto.Message,
	desc protoreflect.MessageDescriptor,
	from func(protoreflect.Message) Resp,
	opts []grpc.CallOption,
) (Resp, error) {
	reply := dynamicpb.NewMessage(desc)
	if err := cc.Invoke(ctx, method, in, reply, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return from(reply), nil
}

func (c *docSearchServiceClient) Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadResponse, error) {
	return invoke(ctx, c.cc, DocSearchServiceUploadFullMethod, in.toMessage().Interface(),
		uploadResponseDesc, uploadResponseFrom, opts)
}

func (c *docSearchServiceClient) Search(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*SearchResponse, error) {
	return invoke(ctx, c.cc, DocSearchServiceSearchFullMethod, in.toMessage().Interface(),
		searchResponseDesc, searchResponseFrom, opts)
}

func (c *docSearchServiceClient) Answer(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*AnswerResponse, error) {
	return invoke(ctx, c.cc, DocSearchServiceAnswerFullMethod, in.toMessage().Interface(),
		answerResponseDesc, answerResponseFrom, opts)
}

func (c *docSearchServiceClient) ListDocuments(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListDocumentsResponse, error) {
	if in == nil {
		in = &emptypb.Empty{}
	}
	return invoke(ctx, c.cc, DocSearchServiceListDocumentsFullMethod, in,
		listDocumentsResponseDesc, listDocumentsResponseFrom, opts)
}

func (c *docSearchServiceClient) GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*Document, error) {
	return invoke(ctx, c.cc, DocSearchServiceGetDocumentFullMethod, in.toMessage().Interface(),
		documentDesc, func(m protoreflect.Message) *Document { return documentFrom(accessor{m: m}) }, opts)
}

func (c *docSearchServiceClient) GetStats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StatsResponse, error) {
	if in == nil {
		in = &emptypb.Empty{}
	}
	return invoke(ctx, c.cc, DocSearchServiceGetStatsFullMethod, in,
		statsResponseDesc, statsResponseFrom, opts)
}
