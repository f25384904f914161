package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mini-maxit/runner/internal/config"
	customErrors "github.com/mini-maxit/runner/pkg/errors"
)

// ObjectClient is the subset of an S3-compatible API the object store needs.
// Missing objects are reported with ErrObjectNotFound.
type ObjectClient interface {
	EnsureBucket(ctx context.Context, bucket string) error
	StatObject(ctx context.Context, bucket, key string) (string, error)
	DownloadObject(ctx context.Context, bucket, key, destPath string) error
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error
	ListObjectKeys(ctx context.Context, bucket string) ([]string, error)
}

type minioClient struct {
	client *minio.Client
}

func NewMinioClient(cfg config.MinioConfig) (ObjectClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access and secret keys are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &minioClient{client: client}, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func (m *minioClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio bucket exists failed: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("minio make bucket failed: %w", err)
	}
	return nil
}

func (m *minioClient) StatObject(ctx context.Context, bucket, key string) (string, error) {
	info, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %s/%s", customErrors.ErrObjectNotFound, bucket, key)
		}
		return "", fmt.Errorf("minio stat object failed: %w", err)
	}
	return info.ETag, nil
}

func (m *minioClient) DownloadObject(ctx context.Context, bucket, key, destPath string) error {
	if err := m.client.FGetObject(ctx, bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s/%s", customErrors.ErrObjectNotFound, bucket, key)
		}
		return fmt.Errorf("minio get object failed: %w", err)
	}
	return nil
}

func (m *minioClient) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("object key is required")
	}
	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}
	if _, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return fmt.Errorf("minio put object failed: %w", err)
	}
	return nil
}

func (m *minioClient) ListObjectKeys(ctx context.Context, bucket string) ([]string, error) {
	keys := []string{}
	for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: false}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio list objects failed: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
