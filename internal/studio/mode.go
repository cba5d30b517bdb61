package studio

import (
	"fmt"
	"strings"
)

// Mode 当前工作模式
type Mode string

const (
	ModeTextToImage  Mode = "text"
	ModeImageToImage Mode = "image"
	ModeGuidelines   Mode = "guidelines"
)

// ParseMode 解析模式字符串
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeTextToImage, ModeImageToImage, ModeGuidelines:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// Workflow 是否为可以提交的生成模式
func (m Mode) Workflow() bool {
	return m == ModeTextToImage || m == ModeImageToImage
}

// OutputMimeType 该模式下结果声明的图片类型：文生图 JPEG，图生图 PNG
func (m Mode) OutputMimeType() string {
	if m == ModeImageToImage {
		return "image/png"
	}
	return "image/jpeg"
}
