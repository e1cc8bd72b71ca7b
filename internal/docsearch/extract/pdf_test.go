package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "Tj",
			content: "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET",
			want:    "Hello World",
		},
		{
			name:    "换行",
			content: "BT (First line) Tj 0 -14 Td (Second line) Tj T* (Third) Tj ET",
			want:    "First line\nSecond line\nThird",
		},
		{
			name:    "TJ 字距",
			content: "BT [(Hel) -20 (lo) -300 (World)] TJ ET",
			want:    "Hello World",
		},
		{
			name:    "转义与嵌套括号",
			content: `BT (a \(b\) (c) \\ \101) Tj ET`,
			want:    `a (b) (c) \ A`,
		},
		{
			name:    "十六进制",
			content: "BT <48656C6C6F> Tj <FEFF00480069> Tj ET",
			want:    "HelloHi",
		},
		{
			name:    "引号操作符",
			content: "BT (one) Tj (two) ' 1 2 (three) \" ET",
			want:    "one\ntwo\nthree",
		},
		{
			name:    "注释与图形操作",
			content: "% comment (ignored)\nq 1 0 0 1 0 0 cm /Im1 Do Q BT (text) Tj ET",
			want:    "text",
		},
		{
			name:    "内联图像",
			content: "BI /W 1 /H 1 ID \x00(junk)\xff EI BT (after) Tj ET",
			want:    "after",
		},
		{
			name:    "空内容",
			content: "",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseContentText([]byte(tt.content)))
		})
	}
}

func TestCollectPages(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"in_Content_page_2.txt":   "BT (two) Tj ET",
		"in_Content_page_10.txt":  "BT (ten) Tj ET",
		"in_Content_page_1.txt":   "BT (one) Tj ET",
		"in_Content_page_1_5.txt": "BT (one-b) Tj ET",
		"unrelated.txt":           "BT (skip) Tj ET",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	pages, err := collectPages(dir)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "one\none-b", parseContentText(pages[1]))
	assert.Equal(t, "two", parseContentText(pages[2]))
	assert.Equal(t, "ten", parseContentText(pages[10]))
}

func TestPDFDecoder_InvalidFile(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("not a pdf"))
	_, err := NewPDFDecoder().Decode(t.Context(), path)
	assert.Error(t, err)
}
