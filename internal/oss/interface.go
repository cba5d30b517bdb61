package oss

import (
	"context"
	"time"
)

// Storage 生成结果使用的对象存储
type Storage interface {
	// Put 上传对象，返回 "bucket/key"
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) (string, error)

	// SignedURL 生成临时访问地址
	SignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)

	// ObjectURL 对象的公开访问地址（不带签名）
	ObjectURL(bucket, key string) string
}
