package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kart-io/logger"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pageFilePattern = regexp.MustCompile(`page_(\d+)`)

// PDFDecoder 使用 pdfcpu 导出每页内容流，再从文本绘制操作符中还原文字。
type PDFDecoder struct {
	tempDir string
}

// NewPDFDecoder 创建 PDF 解码器，临时文件写入系统临时目录。
func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{tempDir: os.TempDir()}
}

// Decode implements Decoder. 每页文本后追加换行。
func (d *PDFDecoder) Decode(ctx context.Context, path string) (string, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	outDir, err := os.MkdirTemp(d.tempDir, "docsearch-pdf-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, model.NewDefaultConfiguration()); err != nil {
		return "", fmt.Errorf("failed to extract pdf content: %w", err)
	}

	pages, err := collectPages(outDir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for n := 1; n <= pdfCtx.PageCount; n++ {
		b.WriteString(parseContentText(pages[n]))
		b.WriteByte('\n')
	}

	logger.Debugw("PDF decoded", "file", filepath.Base(path), "pages", pdfCtx.PageCount)
	return b.String(), nil
}

// collectPages 读取导出目录，按页码合并同一页的内容流文件。
func collectPages(dir string) (map[int][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted content: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	pages := make(map[int][]byte)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pageFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		pages[n] = append(pages[n], data...)
		pages[n] = append(pages[n], '\n')
	}
	return pages, nil
}

// TJ 数组中小于该值的字距调整视为单词间隔（千分之一字号）。
const tjWordGap = -200

type operandKind uint8

const (
	opNumber operandKind = iota + 1
	opString
	opArray
	opOther
)

type operand struct {
	kind operandKind
	num  float64
	str  []byte
	arr  []operand
}

// parseContentText 从内容流中提取 Tj、TJ、' 和 " 绘制的文本。
func parseContentText(content []byte) string {
	p := &contentParser{data: content}
	var (
		out   textWriter
		stack []operand
		// 嵌套数组
		arrays [][]operand
	)
	push := func(o operand) {
		if n := len(arrays); n > 0 {
			arrays[n-1] = append(arrays[n-1], o)
			return
		}
		stack = append(stack, o)
	}

	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokString:
			push(operand{kind: opString, str: tok.value})
		case tokNumber:
			push(operand{kind: opNumber, num: tok.num})
		case tokArrayStart:
			arrays = append(arrays, nil)
		case tokArrayEnd:
			if n := len(arrays); n > 0 {
				arr := arrays[n-1]
				arrays = arrays[:n-1]
				push(operand{kind: opArray, arr: arr})
			}
		case tokOther:
			push(operand{kind: opOther})
		case tokOperator:
			op := string(tok.value)
			switch op {
			case "Tj":
				if s, ok := lastString(stack); ok {
					out.text(s)
				}
			case "'", "\"":
				out.newline()
				if s, ok := lastString(stack); ok {
					out.text(s)
				}
			case "TJ":
				if n := len(stack); n > 0 && stack[n-1].kind == opArray {
					for _, el := range stack[n-1].arr {
						switch el.kind {
						case opString:
							out.text(el.str)
						case opNumber:
							if el.num < tjWordGap {
								out.space()
							}
						}
					}
				}
			case "Td", "TD":
				if n := len(stack); n >= 1 && stack[n-1].kind == opNumber && stack[n-1].num != 0 {
					out.newline()
				} else {
					out.space()
				}
			case "T*", "ET":
				out.newline()
			case "Tm":
				out.space()
			case "BI":
				p.skipInlineImage()
			}
			stack = stack[:0]
			arrays = arrays[:0]
		}
	}
	return strings.TrimSpace(out.String())
}

func lastString(stack []operand) ([]byte, bool) {
	if n := len(stack); n > 0 && stack[n-1].kind == opString {
		return stack[n-1].str, true
	}
	return nil, false
}

// textWriter 合并连续的空白分隔符。
type textWriter struct {
	b strings.Builder
}

func (w *textWriter) text(s []byte) {
	w.b.WriteString(decodePDFString(s))
}

func (w *textWriter) space() {
	w.sep(' ')
}

func (w *textWriter) newline() {
	w.sep('\n')
}

func (w *textWriter) sep(c byte) {
	s := w.b.String()
	if s == "" {
		return
	}
	switch last := s[len(s)-1]; {
	case last == '\n':
		return
	case last == ' ' && c == ' ':
		return
	}
	w.b.WriteByte(c)
}

func (w *textWriter) String() string {
	return w.b.String()
}

// decodePDFString 将字符串字节转为文本：带 BOM 的按 UTF-16BE，其余按单字节编码。
func decodePDFString(s []byte) string {
	if len(s) >= 2 && s[0] == 0xFE && s[1] == 0xFF {
		var b strings.Builder
		for i := 2; i+1 < len(s); i += 2 {
			r := rune(s[i])<<8 | rune(s[i+1])
			if r >= 0x20 || r == '\t' {
				b.WriteRune(r)
			}
		}
		return b.String()
	}

	var b strings.Builder
	for _, c := range s {
		switch {
		case c == '\t':
			b.WriteByte(' ')
		case c < 0x20 || c == 0x7F:
		case c < 0x80:
			b.WriteByte(c)
		default:
			b.WriteRune(rune(c))
		}
	}
	return b.String()
}

type tokenKind uint8

const (
	tokOperator tokenKind = iota + 1
	tokNumber
	tokString
	tokArrayStart
	tokArrayEnd
	tokOther
)

type token struct {
	kind  tokenKind
	value []byte
	num   float64
}

// contentParser PDF 内容流词法分析器。
type contentParser struct {
	data []byte
	pos  int
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (p *contentParser) next() (token, bool) {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case isPDFSpace(c):
			p.pos++
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		case c == '(':
			p.pos++
			return token{kind: tokString, value: p.literal()}, true
		case c == '<':
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
				p.pos += 2
				return token{kind: tokOther}, true
			}
			p.pos++
			return token{kind: tokString, value: p.hex()}, true
		case c == '>':
			p.pos++
			if p.pos < len(p.data) && p.data[p.pos] == '>' {
				p.pos++
			}
			return token{kind: tokOther}, true
		case c == '[':
			p.pos++
			return token{kind: tokArrayStart}, true
		case c == ']':
			p.pos++
			return token{kind: tokArrayEnd}, true
		case c == '/':
			p.pos++
			p.word()
			return token{kind: tokOther}, true
		case c == '{' || c == '}' || c == ')':
			p.pos++
		default:
			w := p.word()
			if f, err := strconv.ParseFloat(string(w), 64); err == nil {
				return token{kind: tokNumber, num: f}, true
			}
			switch string(w) {
			case "true", "false", "null":
				return token{kind: tokOther}, true
			}
			return token{kind: tokOperator, value: w}, true
		}
	}
	return token{}, false
}

func (p *contentParser) word() []byte {
	start := p.pos
	for p.pos < len(p.data) && !isPDFSpace(p.data[p.pos]) && !isPDFDelimiter(p.data[p.pos]) {
		p.pos++
	}
	return p.data[start:p.pos]
}

// literal 读取 (...) 字符串，处理嵌套括号与转义。
func (p *contentParser) literal() []byte {
	var out []byte
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if p.pos >= len(p.data) {
				return out
			}
			e := p.data[p.pos]
			p.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for i := 0; i < 2 && p.pos < len(p.data); i++ {
					d := p.data[p.pos]
					if d < '0' || d > '7' {
						break
					}
					v = v*8 + int(d-'0')
					p.pos++
				}
				out = append(out, byte(v))
			default:
				out = append(out, e)
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// hex 读取 <...> 十六进制字符串，奇数位补 0。
func (p *contentParser) hex() []byte {
	var (
		out  []byte
		hi   byte
		half bool
	)
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out = append(out, hi<<4)
	}
	return out
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage 跳过 BI ... ID <data> EI 内联图像。
func (p *contentParser) skipInlineImage() {
	rest := p.data[p.pos:]
	id := indexToken(rest, "ID")
	if id < 0 {
		p.pos = len(p.data)
		return
	}
	rest = rest[id+2:]
	ei := indexToken(rest, "EI")
	if ei < 0 {
		p.pos = len(p.data)
		return
	}
	p.pos += id + 2 + ei + 2
}

// indexToken 查找前后均为空白（或边界）的关键字。
func indexToken(data []byte, kw string) int {
	s := string(data)
	for off := 0; ; {
		i := strings.Index(s[off:], kw)
		if i < 0 {
			return -1
		}
		i += off
		before := i == 0 || isPDFSpace(s[i-1])
		after := i+len(kw) == len(s) || isPDFSpace(s[i+len(kw)])
		if before && after {
			return i
		}
		off = i + 1
	}
}
