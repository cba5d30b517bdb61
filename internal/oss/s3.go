package oss

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"artify-me/common"
)

const uploadTimeout = 60 * time.Second

// S3Client S3 兼容的对象存储客户端
type S3Client struct {
	client     *s3.Client
	presign    *s3.PresignClient
	httpClient *http.Client
	endpoint   string
	region     string
}

// S3Config S3 客户端配置
type S3Config struct {
	Endpoint  string // 例如 s3.amazonaws.com 或 oss-cn-hangzhou.aliyuncs.com，不带协议
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Client 创建 S3 客户端
func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String("https://" + cfg.Endpoint)
		}
	})

	return &S3Client{
		client:     client,
		presign:    s3.NewPresignClient(client),
		httpClient: &http.Client{Timeout: uploadTimeout},
		endpoint:   cfg.Endpoint,
		region:     cfg.Region,
	}, nil
}

// Put 上传对象
func (c *S3Client) Put(ctx context.Context, bucket, key string, body []byte, contentType string) (string, error) {
	log := common.WithFields(map[string]interface{}{
		"bucket":       bucket,
		"key":          key,
		"content_type": contentType,
		"size":         len(body),
	})
	log.Debug("Uploading object")

	var err error
	if c.needsPresignedPut() {
		err = c.putPresigned(ctx, bucket, key, body, contentType)
	} else {
		_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(contentType),
		})
	}
	if err != nil {
		log.WithError(err).Error("Failed to upload object")
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	log.Info("Object uploaded")
	return bucket + "/" + key, nil
}

// needsPresignedPut 阿里云 OSS 不支持 SDK 默认的 aws-chunked 编码，改用预签名 PUT
func (c *S3Client) needsPresignedPut() bool {
	return strings.Contains(c.endpoint, ".aliyuncs.com")
}

func (c *S3Client) putPresigned(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	presigned, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to presign PUT URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presigned.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for k, values := range presigned.SignedHeader {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("presigned PUT failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("presigned PUT returned status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// SignedURL 生成带签名的 GET 地址
func (c *S3Client) SignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		common.WithError(err).WithField("key", key).Error("Failed to presign GET URL")
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return req.URL, nil
}

// ObjectURL 对象的公开地址
func (c *S3Client) ObjectURL(bucket, key string) string {
	return objectURL(c.endpoint, c.region, bucket, key)
}

func objectURL(endpoint, region, bucket, key string) string {
	switch {
	case endpoint != "":
		return fmt.Sprintf("https://%s.%s/%s", bucket, endpoint, key)
	case region != "":
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
}
