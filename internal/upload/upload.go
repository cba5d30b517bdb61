package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"artify-me/internal/i18n"
)

// MaxSize 上传图片的大小上限（4 MiB，含）
const MaxSize = 4 * 1024 * 1024

var (
	ErrTooLarge        = errors.New("image exceeds the 4MB upload limit")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmpty           = errors.New("image is empty")
)

// allowedTypes 允许上传的图片类型
var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Image 通过校验的源图片
type Image struct {
	Data     []byte
	MimeType string
	Name     string
}

// Base64 返回图片的 base64 编码
func (i *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// Size 图片字节数
func (i *Image) Size() int {
	return len(i.Data)
}

// NormalizeMimeType 统一 MIME 写法，去掉参数部分
func NormalizeMimeType(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "image/jpg" {
		return "image/jpeg"
	}
	return mt
}

// Allowed 是否为允许上传的类型
func Allowed(mimeType string) bool {
	return allowedTypes[NormalizeMimeType(mimeType)]
}

// Validate 只根据大小和声明类型做前置校验，不读取内容
func Validate(size int64, mimeType string) error {
	if size > MaxSize {
		return ErrTooLarge
	}
	if declared(mimeType) && !Allowed(mimeType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	return nil
}

// declared 是否声明了具体类型，application/octet-stream 视为未声明
func declared(mimeType string) bool {
	mt := NormalizeMimeType(mimeType)
	return mt != "" && mt != "application/octet-stream"
}

// FromBytes 校验图片数据并返回 Image，实际类型以内容嗅探结果为准
func FromBytes(data []byte, declaredType, name string) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if err := Validate(int64(len(data)), declaredType); err != nil {
		return nil, err
	}

	detected := NormalizeMimeType(http.DetectContentType(data))
	if !Allowed(detected) {
		return nil, fmt.Errorf("%w: detected %s", ErrUnsupportedType, detected)
	}

	return &Image{Data: data, MimeType: detected, Name: name}, nil
}

// FromMultipart 读取表单上传的文件，超限时在读取内容之前拒绝
func FromMultipart(fh *multipart.FileHeader) (*Image, error) {
	if err := Validate(fh.Size, fh.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	return FromReader(f, fh.Header.Get("Content-Type"), fh.Filename)
}

// FromReader 从 reader 读取图片，最多读取 MaxSize+1 字节用于判断是否超限
func FromReader(r io.Reader, declaredType, name string) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return FromBytes(data, declaredType, name)
}

// ParseDataURL 解析 "data:<mime>;base64,<payload>"，也接受不带前缀的纯 base64
func ParseDataURL(s, fallbackType string) (*Image, error) {
	s = strings.TrimSpace(s)
	declaredType := fallbackType
	payload := s

	if strings.HasPrefix(s, "data:") {
		parts := strings.SplitN(s, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data URI format")
		}
		header := strings.TrimPrefix(parts[0], "data:")
		if !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("data URI must be base64 encoded")
		}
		declaredType = strings.TrimSuffix(header, ";base64")
		payload = parts[1]
	}

	// base64 长度约为原始数据的 4/3，先粗略拦截明显超限的数据
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > MaxSize+2 {
		return nil, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return FromBytes(data, declaredType, "")
}

// MessageKey 把上传错误映射为本地化文案 key
func MessageKey(err error) string {
	switch {
	case errors.Is(err, ErrTooLarge):
		return i18n.KeyErrorFileTooLarge
	case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrEmpty):
		return i18n.KeyErrorFileType
	default:
		return i18n.KeyErrorUpload
	}
}
