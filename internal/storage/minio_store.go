package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config holds the S3-compatible endpoint settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// MinioStore implements media.Store on a private bucket. Objects are only
// reachable through presigned URLs.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger

	bucketReady atomic.Bool
}

// NewMinioStore creates the client. The bucket is created lazily by EnsureBucket.
func NewMinioStore(cfg Config, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	if s.bucketReady.Load() {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
		s.logger.Info("created media bucket", zap.String("bucket", s.bucket))
	}
	s.bucketReady.Store(true)
	return nil
}

// Put uploads data under name.
func (s *MinioStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if err := s.EnsureBucket(ctx); err != nil {
		return err
	}

	info, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", name, err)
	}

	s.logger.Info("stored media object",
		zap.String("bucket", s.bucket),
		zap.String("object", name),
		zap.Int64("size", info.Size),
	)
	return nil
}

// SignedURL returns a presigned GET URL for name valid for ttl.
func (s *MinioStore) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if name == "" {
		return "", fmt.Errorf("object name is required")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, name, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", name, err)
	}
	return u.String(), nil
}

// Ping checks that the endpoint answers, for readiness probes.
func (s *MinioStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
