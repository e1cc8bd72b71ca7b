package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// FileOption 配置 FileKV。
type FileOption func(*fileOptions)

type fileOptions struct {
	envelope string
	indent   string
}

// WithEnvelope 将数据包裹在顶层字段下保存，例如 {"documents": {...}}。
func WithEnvelope(key string) FileOption {
	return func(o *fileOptions) {
		o.envelope = key
	}
}

// WithIndent 设置写入文件时的缩进。
func WithIndent(indent string) FileOption {
	return func(o *fileOptions) {
		o.indent = indent
	}
}

// FileKV 基于单个 JSON 文件的键值存储。
//
// 启动时完整加载到内存，每次写入后整体回写。写入通过互斥锁串行化，
// 回写失败时内存状态保持不变。
type FileKV[V any] struct {
	mu   sync.RWMutex
	path string
	opts fileOptions
	data map[string]V
}

var _ KV[ChunkRecord] = (*FileKV[ChunkRecord])(nil)

// OpenFileKV 打开（或创建）path 对应的存储。文件内容损坏时返回错误。
func OpenFileKV[V any](path string, opts ...FileOption) (*FileKV[V], error) {
	o := fileOptions{indent: "  "}
	for _, opt := range opts {
		opt(&o)
	}

	kv := &FileKV[V]{
		path: path,
		opts: o,
		data: make(map[string]V),
	}
	if err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

// NewChunkFileStore 打开分块存储文件。
func NewChunkFileStore(path string) (*FileKV[ChunkRecord], error) {
	return OpenFileKV[ChunkRecord](path)
}

// NewDocumentFileRegistry 打开文档注册表文件，数据保存在 "documents" 字段下。
func NewDocumentFileRegistry(path string) (*FileKV[DocumentRecord], error) {
	return OpenFileKV[DocumentRecord](path, WithEnvelope("documents"))
}

// Path 返回存储文件路径。
func (s *FileKV[V]) Path() string {
	return s.path
}

// Get 读取单个键。
func (s *FileKV[V]) Get(_ context.Context, key string) (V, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Put 写入单个键并回写文件。
func (s *FileKV[V]) Put(ctx context.Context, key string, value V) error {
	return s.PutAll(ctx, map[string]V{key: value})
}

// PutAll 写入多个键并回写文件一次。
func (s *FileKV[V]) PutAll(_ context.Context, entries map[string]V) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.data)
	for k, v := range entries {
		next[k] = v
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// All 返回全部数据的副本。
func (s *FileKV[V]) All(_ context.Context) (map[string]V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data), nil
}

// Len 返回键数量。
func (s *FileKV[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close implements KV.
func (s *FileKV[V]) Close(_ context.Context) error {
	return nil
}

func (s *FileKV[V]) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return nil
	}

	if s.opts.envelope == "" {
		if err := sonic.Unmarshal(raw, &s.data); err != nil {
			return fmt.Errorf("failed to decode %s: %w", s.path, err)
		}
	} else {
		var wrapped map[string]json.RawMessage
		if err := sonic.Unmarshal(raw, &wrapped); err != nil {
			return fmt.Errorf("failed to decode %s: %w", s.path, err)
		}
		if inner, ok := wrapped[s.opts.envelope]; ok {
			if err := sonic.Unmarshal(inner, &s.data); err != nil {
				return fmt.Errorf("failed to decode %s.%s: %w", s.path, s.opts.envelope, err)
			}
		}
	}

	if s.data == nil {
		s.data = make(map[string]V)
	}
	return nil
}

func (s *FileKV[V]) save(data map[string]V) error {
	var payload any = data
	if s.opts.envelope != "" {
		payload = map[string]any{s.opts.envelope: data}
	}

	raw, err := sonic.ConfigStd.MarshalIndent(payload, "", s.opts.indent)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
