package oss

import (
	"context"
	"fmt"
	"time"

	"artify-me/internal/studio"
	"artify-me/internal/utils"
)

// Publisher 把生成结果上传到对象存储，实现 studio.Publisher
type Publisher struct {
	storage Storage
	bucket  string
	expires time.Duration
	now     func() time.Time
}

// NewPublisher expires 为 0 时返回公开地址
func NewPublisher(storage Storage, bucket string, expires time.Duration) *Publisher {
	return &Publisher{
		storage: storage,
		bucket:  bucket,
		expires: expires,
		now:     time.Now,
	}
}

// Publish 上传结果图片并返回访问地址
func (p *Publisher) Publish(ctx context.Context, result *studio.Result) (string, error) {
	data, err := result.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	now := p.now()
	key := utils.GenerateImagePath(now) + utils.GenerateImageFileName(result.MimeType, now)
	if _, err := p.storage.Put(ctx, p.bucket, key, data, result.MimeType); err != nil {
		return "", err
	}

	if p.expires > 0 {
		return p.storage.SignedURL(ctx, p.bucket, key, p.expires)
	}
	return p.storage.ObjectURL(p.bucket, key), nil
}
