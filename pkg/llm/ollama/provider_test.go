package ollama

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/pkg/llm"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/json"
)

func TestProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req embedRequest
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "all-minilm", req.Model)

		resp := embedResponse{Model: req.Model}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i), 0.5})
		}
		data, _ := json.Marshal(resp)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	p, err := llm.NewEmbeddingProvider(ProviderName, map[string]any{"base_url": srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	vecs, err := p.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 0.5}, {1, 0.5}}, vecs)

	vec, err := p.EmbedSingle(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5}, vec)

	vecs, err = p.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestProvider_EmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[1,2]]}`))
	}))
	defer srv.Close()

	p := NewProviderWithConfig(&Config{BaseURL: srv.URL, EmbedModel: "m", Timeout: time.Second})
	_, err := p.Embed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestProvider_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	p := NewProviderWithConfig(&Config{BaseURL: srv.URL, Timeout: time.Second})
	assert.NoError(t, p.Ping(context.Background()))
}
