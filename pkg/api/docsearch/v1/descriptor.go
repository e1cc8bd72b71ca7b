// Package docsearchv1 defines the docsearch.v1 gRPC API.
//
// The schema is assembled as a FileDescriptorProto at package initialization
// and registered in protoregistry.GlobalFiles, so server reflection and
// grpcurl see it like any generated file. Messages travel as dynamicpb
// messages and are converted to the plain Go structs in this package at the
// service edges.
package docsearchv1

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	// FileName is the registered path of the schema.
	FileName = "docsearch/v1/docsearch.proto"
	// PackageName is the protobuf package.
	PackageName = "docsearch.v1"
	// ServiceName is the fully qualified service name.
	ServiceName = PackageName + ".DocSearchService"
)

// File is the registered docsearch.v1 file descriptor.
var File = registerFile()

var (
	uploadRequestDesc         = File.Messages().ByName("UploadRequest")
	uploadResponseDesc        = File.Messages().ByName("UploadResponse")
	queryRequestDesc          = File.Messages().ByName("QueryRequest")
	searchResponseDesc        = File.Messages().ByName("SearchResponse")
	answerResponseDesc        = File.Messages().ByName("AnswerResponse")
	documentDesc              = File.Messages().ByName("Document")
	getDocumentRequestDesc    = File.Messages().ByName("GetDocumentRequest")
	listDocumentsResponseDesc = File.Messages().ByName("ListDocumentsResponse")
	statsResponseDesc         = File.Messages().ByName("StatsResponse")
)

func registerFile() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("docsearch/v1: invalid file descriptor: %v", err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("docsearch/v1: failed to register %s: %v", FileName, err))
	}
	return fd
}

type fieldType = descriptorpb.FieldDescriptorProto_Type

const (
	typeString = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeBytes  = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	typeInt32  = descriptorpb.FieldDescriptorProto_TYPE_INT32
	typeInt64  = descriptorpb.FieldDescriptorProto_TYPE_INT64
	typeDouble = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
)

func scalar(name string, number int32, typ fieldType) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func repeated(name string, number int32, msg string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(local(msg)),
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func method(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(input),
		OutputType: proto.String(output),
	}
}

func local(name string) string {
	return "." + PackageName + "." + name
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	empty := "." + string((&emptypb.Empty{}).ProtoReflect().Descriptor().FullName())

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(FileName),
		Package:    proto.String(PackageName),
		Syntax:     proto.String("proto3"),
		Dependency: []string{emptypb.File_google_protobuf_empty_proto.Path()},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/Shreeshail-sp/docsearch/pkg/api/docsearch/v1;docsearchv1"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("UploadRequest",
				scalar("filename", 1, typeString),
				scalar("content", 2, typeBytes),
			),
			message("UploadResponse",
				scalar("status", 1, typeString),
				scalar("filename", 2, typeString),
				scalar("chunks_indexed", 3, typeInt32),
				scalar("vector_index", 4, typeString),
			),
			message("QueryRequest",
				scalar("query", 1, typeString),
				scalar("top_k", 2, typeInt32),
			),
			message("SearchResult",
				scalar("rank", 1, typeInt32),
				scalar("text", 2, typeString),
				scalar("filename", 3, typeString),
				scalar("chunk_id", 4, typeInt32),
				scalar("score", 5, typeDouble),
			),
			message("SearchResponse",
				scalar("query", 1, typeString),
				repeated("results", 2, "SearchResult"),
				scalar("count", 3, typeInt32),
			),
			message("Source",
				scalar("filename", 1, typeString),
				scalar("score", 2, typeDouble),
			),
			message("AnswerResponse",
				scalar("answer", 1, typeString),
				repeated("sources", 2, "Source"),
				scalar("confidence", 3, typeDouble),
				repeated("chunks", 4, "SearchResult"),
			),
			message("Document",
				scalar("filename", 1, typeString),
				scalar("path", 2, typeString),
				scalar("chunks", 3, typeInt32),
			),
			message("GetDocumentRequest",
				scalar("filename", 1, typeString),
			),
			message("ListDocumentsResponse",
				repeated("documents", 1, "Document"),
			),
			message("StatsResponse",
				scalar("index", 1, typeString),
				scalar("dimension", 2, typeInt32),
				scalar("metric", 3, typeString),
				scalar("documents", 4, typeInt64),
				scalar("chunks", 5, typeInt64),
				scalar("embed_provider", 6, typeString),
				// details_json carries the full stats document, including
				// cache and metrics snapshots.
				scalar("details_json", 7, typeString),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("DocSearchService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("Upload", local("UploadRequest"), local("UploadResponse")),
				method("Search", local("QueryRequest"), local("SearchResponse")),
				method("Answer", local("QueryRequest"), local("AnswerResponse")),
				method("ListDocuments", empty, local("ListDocumentsResponse")),
				method("GetDocument", local("GetDocumentRequest"), local("Document")),
				method("GetStats", empty, local("StatsResponse")),
			},
		}},
	}
}
