package model

// IndexResult is the outcome of ingesting one document.
type IndexResult struct {
	Status        string `json:"status"`
	Filename      string `json:"filename"`
	ChunksIndexed int    `json:"chunks_indexed"`
	// VectorIndex is "indexed", or "pending" when the vector insert failed
	// and only the chunk store holds the new chunks.
	VectorIndex string `json:"vector_index"`
}

// SearchResult is one ranked chunk returned by a query.
type SearchResult struct {
	Rank     int     `json:"rank"`
	Text     string  `json:"text"`
	Filename string  `json:"filename"`
	ChunkID  int     `json:"chunk_id"`
	Score    float64 `json:"score"`
}

// Source is a distinct document backing an answer.
type Source struct {
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

// AnswerResult is a synthesized extractive answer.
type AnswerResult struct {
	Answer     string         `json:"answer"`
	Sources    []Source       `json:"sources"`
	Confidence float64        `json:"confidence"`
	Chunks     []SearchResult `json:"chunks,omitempty"`
}

// SearchResponse wraps ranked chunks for a query.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}
