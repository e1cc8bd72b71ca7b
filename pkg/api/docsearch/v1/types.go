package docsearchv1

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// UploadRequest carries one document to ingest.
type UploadRequest struct {
	Filename string
	Content  []byte
}

// UploadResponse is the outcome of ingesting one document.
type UploadResponse struct {
	Status        string
	Filename      string
	ChunksIndexed int32
	VectorIndex   string
}

// QueryRequest is the input of Search and Answer. TopK <= 0 selects the
// server default.
type QueryRequest struct {
	Query string
	TopK  int32
}

// SearchResult is one ranked chunk.
type SearchResult struct {
	Rank     int32
	Text     string
	Filename string
	ChunkID  int32
	Score    float64
}

// SearchResponse wraps ranked chunks for a query.
type SearchResponse struct {
	Query   string
	Results []*SearchResult
	Count   int32
}

// Source is a distinct document backing an answer.
type Source struct {
	Filename string
	Score    float64
}

// AnswerResponse is a synthesized extractive answer.
type AnswerResponse struct {
	Answer     string
	Sources    []*Source
	Confidence float64
	Chunks     []*SearchResult
}

// Document is one registry entry.
type Document struct {
	Filename string
	Path     string
	Chunks   int32
}

// GetDocumentRequest selects a registry entry by filename.
type GetDocumentRequest struct {
	Filename string
}

// ListDocumentsResponse lists the registry, sorted by filename.
type ListDocumentsResponse struct {
	Documents []*Document
}

// StatsResponse summarizes the index and its stores.
type StatsResponse struct {
	Index         string
	Dimension     int32
	Metric        string
	Documents     int64
	Chunks        int64
	EmbedProvider string
	DetailsJSON   string
}

// accessor reads and writes message fields by proto name.
type accessor struct {
	m protoreflect.Message
}

func newAccessor(desc protoreflect.MessageDescriptor) accessor {
	return accessor{m: dynamicpb.NewMessage(desc)}
}

func (a accessor) field(name string) protoreflect.FieldDescriptor {
	fd := a.m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic(fmt.Sprintf("docsearch/v1: %s has no field %q", a.m.Descriptor().FullName(), name))
	}
	return fd
}

func (a accessor) str(name string) string    { return a.m.Get(a.field(name)).String() }
func (a accessor) bytes(name string) []byte  { return a.m.Get(a.field(name)).Bytes() }
func (a accessor) int32(name string) int32   { return int32(a.m.Get(a.field(name)).Int()) }
func (a accessor) int64(name string) int64   { return a.m.Get(a.field(name)).Int() }
func (a accessor) float(name string) float64 { return a.m.Get(a.field(name)).Float() }

func (a accessor) setStr(name, v string) {
	a.m.Set(a.field(name), protoreflect.ValueOfString(v))
}

func (a accessor) setBytes(name string, v []byte) {
	a.m.Set(a.field(name), protoreflect.ValueOfBytes(v))
}

func (a accessor) setInt32(name string, v int32) {
	a.m.Set(a.field(name), protoreflect.ValueOfInt32(v))
}

func (a accessor) setInt64(name string, v int64) {
	a.m.Set(a.field(name), protoreflect.ValueOfInt64(v))
}

func (a accessor) setFloat(name string, v float64) {
	a.m.Set(a.field(name), protoreflect.ValueOfFloat64(v))
}

// add appends a new element to a repeated message field.
func (a accessor) add(name string) accessor {
	list := a.m.Mutable(a.field(name)).List()
	elem := list.NewElement()
	list.Append(elem)
	return accessor{m: elem.Message()}
}

func (a accessor) each(name string, fn func(accessor)) {
	list := a.m.Get(a.field(name)).List()
	for i := 0; i < list.Len(); i++ {
		fn(accessor{m: list.Get(i).Message()})
	}
}

func (x *UploadRequest) toMessage() protoreflect.Message {
	a := newAccessor(uploadRequestDesc)
	if x != nil {
		a.setStr("filename", x.Filename)
		a.setBytes("content", x.Content)
	}
	return a.m
}

func uploadRequestFrom(m protoreflect.Message) *UploadRequest {
	a := accessor{m: m}
	return &UploadRequest{Filename: a.str("filename"), Content: a.bytes("content")}
}

func (x *UploadResponse) toMessage() protoreflect.Message {
	a := newAccessor(uploadResponseDesc)
	if x != nil {
		a.setStr("status", x.Status)
		a.setStr("filename", x.Filename)
		a.setInt32("chunks_indexed", x.ChunksIndexed)
		a.setStr("vector_index", x.VectorIndex)
	}
	return a.m
}

func uploadResponseFrom(m protoreflect.Message) *UploadResponse {
	a := accessor{m: m}
	return &UploadResponse{
		Status:        a.str("status"),
		Filename:      a.str("filename"),
		ChunksIndexed: a.int32("chunks_indexed"),
		VectorIndex:   a.str("vector_index"),
	}
}

func (x *QueryRequest) toMessage() protoreflect.Message {
	a := newAccessor(queryRequestDesc)
	if x != nil {
		a.setStr("query", x.Query)
		a.setInt32("top_k", x.TopK)
	}
	return a.m
}

func queryRequestFrom(m protoreflect.Message) *QueryRequest {
	a := accessor{m: m}
	return &QueryRequest{Query: a.str("query"), TopK: a.int32("top_k")}
}

func (x *SearchResult) fill(a accessor) {
	a.setInt32("rank", x.Rank)
	a.setStr("text", x.Text)
	a.setStr("filename", x.Filename)
	a.setInt32("chunk_id", x.ChunkID)
	a.setFloat("score", x.Score)
}

func searchResultFrom(a accessor) *SearchResult {
	return &SearchResult{
		Rank:     a.int32("rank"),
		Text:     a.str("text"),
		Filename: a.str("filename"),
		ChunkID:  a.int32("chunk_id"),
		Score:    a.float("score"),
	}
}

func searchResultsFrom(a accessor, name string) []*SearchResult {
	var out []*SearchResult
	a.each(name, func(e accessor) {
		out = append(out, searchResultFrom(e))
	})
	return out
}

func (x *SearchResponse) toMessage() protoreflect.Message {
	a := newAccessor(searchResponseDesc)
	if x != nil {
		a.setStr("query", x.Query)
		for _, r := range x.Results {
			r.fill(a.add("results"))
		}
		a.setInt32("count", x.Count)
	}
	return a.m
}

func searchResponseFrom(m protoreflect.Message) *SearchResponse {
	a := accessor{m: m}
	return &SearchResponse{
		Query:   a.str("query"),
		Results: searchResultsFrom(a, "results"),
		Count:   a.int32("count"),
	}
}

func (x *AnswerResponse) toMessage() protoreflect.Message {
	a := newAccessor(answerResponseDesc)
	if x != nil {
		a.setStr("answer", x.Answer)
		for _, s := range x.Sources {
			e := a.add("sources")
			e.setStr("filename", s.Filename)
			e.setFloat("score", s.Score)
		}
		a.setFloat("confidence", x.Confidence)
		for _, c := range x.Chunks {
			c.fill(a.add("chunks"))
		}
	}
	return a.m
}

func answerResponseFrom(m protoreflect.Message) *AnswerResponse {
	a := accessor{m: m}
	resp := &AnswerResponse{
		Answer:     a.str("answer"),
		Confidence: a.float("confidence"),
		Chunks:     searchResultsFrom(a, "chunks"),
	}
	a.each("sources", func(e accessor) {
		resp.Sources = append(resp.Sources, &Source{Filename: e.str("filename"), Score: e.float("score")})
	})
	return resp
}

func (x *Document) fill(a accessor) {
	a.setStr("filename", x.Filename)
	a.setStr("path", x.Path)
	a.setInt32("chunks", x.Chunks)
}

func documentFrom(a accessor) *Document {
	return &Document{Filename: a.str("filename"), Path: a.str("path"), Chunks: a.int32("chunks")}
}

func (x *Document) toMessage() protoreflect.Message {
	a := newAccessor(documentDesc)
	if x != nil {
		x.fill(a)
	}
	return a.m
}

func (x *GetDocumentRequest) toMessage() protoreflect.Message {
	a := newAccessor(getDocumentRequestDesc)
	if x != nil {
		a.setStr("filename", x.Filename)
	}
	return a.m
}

func getDocumentRequestFrom(m protoreflect.Message) *GetDocumentRequest {
	return &GetDocumentRequest{Filename: accessor{m: m}.str("filename")}
}

func (x *ListDocumentsResponse) toMessage() protoreflect.Message {
	a := newAccessor(listDocumentsResponseDesc)
	if x != nil {
		for _, d := range x.Documents {
			d.fill(a.add("documents"))
		}
	}
	return a.m
}

func listDocumentsResponseFrom(m protoreflect.Message) *ListDocumentsResponse {
	resp := &ListDocumentsResponse{}
	accessor{m: m}.each("documents", func(e accessor) {
		resp.Documents = append(resp.Documents, documentFrom(e))
	})
	return resp
}

func (x *StatsResponse) toMessage() protoreflect.Message {
	a := newAccessor(statsResponseDesc)
	if x != nil {
		a.setStr("index", x.Index)
		a.setInt32("dimension", x.Dimension)
		a.setStr("metric", x.Metric)
		a.setInt64("documents", x.Documents)
		a.setInt64("chunks", x.Chunks)
		a.setStr("embed_provider", x.EmbedProvider)
		a.setStr("details_json", x.DetailsJSON)
	}
	return a.m
}

func statsResponseFrom(m protoreflect.Message) *StatsResponse {
	a := accessor{m: m}
	return &StatsResponse{
		Index:         a.str("index"),
		Dimension:     a.int32("dimension"),
		Metric:        a.str("metric"),
		Documents:     a.int64("documents"),
		Chunks:        a.int64("chunks"),
		EmbedProvider: a.str("embed_provider"),
		DetailsJSON:   a.str("details_json"),
	}
}
