package oss

import (
	"context"

	"artify-me/common"
)

// NewPublisherFromConfig 按配置创建结果发布器，未开启 url 输出时返回 nil
func NewPublisherFromConfig(ctx context.Context, cfg *common.Config) (*Publisher, error) {
	if !cfg.UploadEnabled() {
		return nil, nil
	}

	client, err := NewS3Client(ctx, S3Config{
		Endpoint:  cfg.OSSEndpoint,
		Region:    cfg.OSSRegion,
		AccessKey: cfg.OSSAccessKey,
		SecretKey: cfg.OSSSecretKey,
	})
	if err != nil {
		return nil, err
	}

	common.WithFields(map[string]interface{}{
		"endpoint": cfg.OSSEndpoint,
		"bucket":   cfg.OSSBucket,
		"signed":   cfg.OSSSignedURLExpire() > 0,
	}).Info("OSS publisher initialized")

	return NewPublisher(client, cfg.OSSBucket, cfg.OSSSignedURLExpire()), nil
}
