package extract

import (
	"context"
	"os"
	"strings"
)

// DecodeText 以 UTF-8 读取纯文本文件，非法字节直接丢弃。
func DecodeText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
