package gemini

import "context"

// ImageAPI 对外暴露的两个图片操作，返回值均为 base64 编码的图片数据
type ImageAPI interface {
	// GenerateFromText 文生图，返回 JPEG
	GenerateFromText(ctx context.Context, prompt string) (string, error)
	// TransformImage 图生图，imageB64 为已经通过上传校验的源图片
	TransformImage(ctx context.Context, imageB64, mimeType, prompt string) (string, error)
}
