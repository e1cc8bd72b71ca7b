package biz

import (
	"strings"

	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

// Chunk 文本分块，Start/End 为去除首尾空白后文本中的字符偏移。
type Chunk struct {
	Text  string
	Start int
	End   int
}

// Chunker 按固定窗口切分文本，窗口后半段出现句号或换行时在该处截断。
type Chunker struct {
	size    int
	overlap int
}

// NewChunker 创建分块器，overlap 必须小于 size。
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, errors.ErrChunkerConfig.WithMessagef(
			"invalid chunker config: size=%d overlap=%d, need size > overlap >= 0", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size 返回窗口大小。
func (c *Chunker) Size() int { return c.size }

// Overlap 返回重叠大小。
func (c *Chunker) Overlap() int { return c.overlap }

// Split 切分文本，空白输入返回空切片。
func (c *Chunker) Split(text string) []Chunk {
	runes := []rune(strings.TrimSpace(text))
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []Chunk
	for start := 0; start < n; {
		end := start + c.size
		if end >= n {
			end = n
		} else if boundary := lastBoundary(runes[start:end]); boundary > c.size/2 {
			end = start + boundary + 1
		}

		chunks = append(chunks, Chunk{
			Text:  strings.TrimSpace(string(runes[start:end])),
			Start: start,
			End:   end,
		})
		if end == n {
			break
		}

		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// lastBoundary 返回窗口内最后一个 '.' 或 '\n' 的位置，不存在时为 -1。
func lastBoundary(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' || window[i] == '\n' {
			return i
		}
	}
	return -1
}
