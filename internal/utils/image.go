package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DownloadImageFromURL 从 URL 下载图片，返回图片数据和 MIME 类型
// 最多读取 maxBytes+1 字节，调用方据此判断是否超限
func DownloadImageFromURL(ctx context.Context, url string, maxBytes int64) ([]byte, string, error) {
	// 创建 HTTP 客户端
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", err
	}

	// 获取 Content-Type
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		// 根据文件扩展名推断 MIME 类型
		mimeType = InferMimeTypeFromURL(url)
	}

	return imageData, mimeType, nil
}

// InferMimeTypeFromURL 从 URL 或文件名推断 MIME 类型（不区分大小写）
func InferMimeTypeFromURL(url string) string {
	if len(url) > 4 {
		ext := strings.ToLower(url[len(url)-4:])
		switch ext {
		case ".jpg", "jpeg":
			return "image/jpeg"
		case ".png":
			return "image/png"
		case ".gif":
			return "image/gif"
		case "webp":
			return "image/webp"
		}
	}
	// 默认返回 jpeg
	return "image/jpeg"
}

// GenerateImagePath 生成图片路径：images/yyyy-MM-dd/
func GenerateImagePath(now time.Time) string {
	return fmt.Sprintf("images/%s/", now.Format("2006-01-02"))
}

// GenerateImageFileName 生成图片文件名：{uuid}_{timestamp}_{random}.ext
func GenerateImageFileName(mimeType string, now time.Time) string {
	id := uuid.New().String()

	// 生成随机字符串
	randomBytes := make([]byte, 4)
	_, _ = rand.Read(randomBytes)
	randomStr := fmt.Sprintf("%x", randomBytes)

	return fmt.Sprintf("%s_%d_%s%s", id, now.Unix(), randomStr, GetExtensionFromMimeType(mimeType))
}

// GetExtensionFromMimeType 根据 MIME 类型获取文件扩展名（不区分大小写）
func GetExtensionFromMimeType(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg" // 默认使用 jpg
	}
}

// TruncateForLog 截断长字符串用于日志，避免打印过长内容（如 base64）
// max 按字节计算，截断位置会退回到完整字符的边界
func TruncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	cut, suffix := max, ""
	if max > 3 {
		cut, suffix = max-3, "..."
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
