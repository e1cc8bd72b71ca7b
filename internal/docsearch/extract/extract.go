// Package extract 按文件扩展名选择解码器，将上传的文档转换为纯文本。
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat 文件扩展名没有对应的解码器。
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Decoder 将磁盘上的文件解码为纯文本。
type Decoder interface {
	Decode(ctx context.Context, path string) (string, error)
}

// DecoderFunc 函数形式的 Decoder。
type DecoderFunc func(ctx context.Context, path string) (string, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// DefaultFormats 返回内置支持的扩展名。
func DefaultFormats() []string {
	return []string{".pdf", ".docx", ".doc", ".txt"}
}

func builtin(ext string) (Decoder, bool) {
	switch ext {
	case ".pdf":
		return NewPDFDecoder(), true
	case ".docx", ".doc":
		return DecoderFunc(DecodeDOCX), true
	case ".txt":
		return DecoderFunc(DecodeText), true
	default:
		return nil, false
	}
}

// Registry 扩展名到解码器的映射。
type Registry struct {
	decoders map[string]Decoder
}

// NewRegistry 创建注册表，formats 为空时启用全部内置格式。
func NewRegistry(formats ...string) (*Registry, error) {
	if len(formats) == 0 {
		formats = DefaultFormats()
	}

	r := &Registry{decoders: make(map[string]Decoder, len(formats))}
	for _, f := range formats {
		ext := normalizeExt(f)
		d, ok := builtin(ext)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
		}
		r.decoders[ext] = d
	}
	return r, nil
}

// Register 注册或替换某个扩展名的解码器。
func (r *Registry) Register(ext string, d Decoder) {
	r.decoders[normalizeExt(ext)] = d
}

// Supported 判断文件名的扩展名是否有解码器。
func (r *Registry) Supported(filename string) bool {
	_, ok := r.decoders[normalizeExt(filepath.Ext(filename))]
	return ok
}

// Formats 返回已启用的扩展名（有序）。
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extract 解码文件，返回提取出的文本。
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := normalizeExt(filepath.Ext(path))
	d, ok := r.decoders[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := d.Decode(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
