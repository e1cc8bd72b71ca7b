package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/ugorji/go/codec"

	options "github.com/Shreeshail-sp/docsearch/pkg/options/endee"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/httpclient"
)

// EndeeIndex 通过 Endee REST API 实现 VectorIndex。
type EndeeIndex struct {
	baseURL string
	token   string
	client  *httpclient.Client
	mh      *codec.MsgpackHandle
}

var _ VectorIndex = (*EndeeIndex)(nil)

// NewEndeeIndex 创建 Endee 客户端。
func NewEndeeIndex(opts *options.Options) (*EndeeIndex, error) {
	if opts == nil {
		return nil, fmt.Errorf("endee options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid endee options: %v", errs)
	}

	mh := &codec.MsgpackHandle{}
	mh.MapType = reflect.TypeOf(map[string]any(nil))
	mh.RawToString = true

	return &EndeeIndex{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.AuthToken,
		client:  httpclient.NewClient(opts.Timeout, 0),
		mh:      mh,
	}, nil
}

type createIndexRequest struct {
	IndexName string `json:"index_name"`
	Dim       int    `json:"dim"`
	SpaceType string `json:"space_type"`
}

type listIndexesResponse struct {
	Indexes []struct {
		Name string `json:"name"`
	} `json:"indexes"`
}

type insertItem struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

type searchRequest struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

// CreateIndex implements VectorIndex.
func (e *EndeeIndex) CreateIndex(ctx context.Context, name string, dim int, metric Metric) error {
	_, _, err := e.do(ctx, http.MethodPost, "/api/v1/index/create", createIndexRequest{
		IndexName: name,
		Dim:       dim,
		SpaceType: string(metric),
	})
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	return nil
}

// IndexExists implements VectorIndex.
func (e *EndeeIndex) IndexExists(ctx context.Context, name string) (bool, error) {
	body, _, err := e.do(ctx, http.MethodGet, "/api/v1/index/list", nil)
	if err != nil {
		return false, fmt.Errorf("failed to list indexes: %w", err)
	}

	var resp listIndexesResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("failed to decode index list: %w", err)
	}
	for _, idx := range resp.Indexes {
		if idx.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Insert implements VectorIndex.
func (e *EndeeIndex) Insert(ctx context.Context, name string, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]insertItem, len(records))
	for i, r := range records {
		items[i] = insertItem{ID: r.ID, Vector: r.Vector}
	}

	path := "/api/v1/index/" + url.PathEscape(name) + "/vector/insert"
	if _, _, err := e.do(ctx, http.MethodPost, path, items); err != nil {
		return fmt.Errorf("failed to insert %d vectors into %s: %w", len(records), name, err)
	}
	return nil
}

// Search implements VectorIndex.
//
// 响应为 msgpack 时是命中列表，否则为 JSON {"results": [...]}。
func (e *EndeeIndex) Search(ctx context.Context, name string, vector []float32, k int) ([]RawHit, error) {
	path := "/api/v1/index/" + url.PathEscape(name) + "/search"
	body, contentType, err := e.do(ctx, http.MethodPost, path, searchRequest{Vector: vector, K: k})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", name, err)
	}

	var values []any
	if strings.Contains(contentType, "msgpack") {
		if err := codec.NewDecoderBytes(body, e.mh).Decode(&values); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack search response: %w", err)
		}
		return ParseRawHits(values), nil
	}

	values, err = decodeJSONResults(body)
	if err != nil {
		return nil, err
	}
	return ParseRawHits(values), nil
}

// Close implements VectorIndex.
func (e *EndeeIndex) Close(_ context.Context) error {
	e.client.CloseIdleConnections()
	return nil
}

func decodeJSONResults(body []byte) ([]any, error) {
	var doc any
	if err := sonic.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	switch v := doc.(type) {
	case map[string]any:
		results, _ := v["results"].([]any)
		return results, nil
	case []any:
		return v, nil
	default:
		return nil, nil
	}
}

// do 发送请求，非 200 状态视为失败。失败不重试，由调用方决定如何降级。
func (e *EndeeIndex) do(ctx context.Context, method, path string, payload any) ([]byte, string, error) {
	var reader io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reader)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", e.token)
	}

	resp, err := e.client.DoRequest(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
