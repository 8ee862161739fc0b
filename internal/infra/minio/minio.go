package minio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var client *minio.Client

// ErrInvalidImage 图片不是合法的 base64 data URI
var ErrInvalidImage = errors.New("image must be a base64 data URI")

// Init 初始化 MinIO 客户端，确保图片 Bucket 存在且公开可读
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bucket := cfg.ImageBucket
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", bucket))
	}

	// 前端直接通过 URL 展示菜谱图片
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
	if err := client.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", bucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", bucket),
	)
	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// DecodedImage 解析后的 data URI
type DecodedImage struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI 解析 data:image/<ext>;base64,<payload>
func DecodeDataURI(s string) (*DecodedImage, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext := strings.TrimPrefix(contentType, "image/")
	if ext == "" || strings.ContainsAny(ext, "/;") {
		return nil, ErrInvalidImage
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	if i := strings.Index(ext, "+"); i > 0 {
		ext = ext[:i]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImage
	}

	return &DecodedImage{Data: data, ContentType: contentType, Ext: ext}, nil
}

// ImageStore 把菜谱图片存入公开 Bucket 并返回可访问的 URL
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImageStore publicURL 为空时由 endpoint 拼接
func NewImageStore(c *minio.Client, cfg *config.MinIOConfig) *ImageStore {
	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	return &ImageStore{client: c, bucket: cfg.ImageBucket, publicURL: base + "/" + cfg.ImageBucket}
}

// SaveImage 解码 data URI 并上传，对象名为 recipes/<uuid>.<ext>
func (s *ImageStore) SaveImage(ctx context.Context, dataURI string) (string, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("recipes/%s.%s", uuid.NewString(), img.Ext)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(img.Data), int64(len(img.Data)), minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return s.publicURL + "/" + objectName, nil
}

// DeleteImage 删除由 SaveImage 生成的图片，非本 Bucket 的 URL 忽略
func (s *ImageStore) DeleteImage(ctx context.Context, url string) error {
	objectName, ok := s.objectName(url)
	if !ok {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove from minio: %w", err)
	}
	return nil
}

func (s *ImageStore) objectName(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	return name, name != ""
}
