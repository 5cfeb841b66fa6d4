// Package storage stores uploaded listing photos in S3-compatible object
// storage (MinIO in development). Photo filenames recorded on listings are
// opaque keys into the bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Service defines the photo storage operations.
type Service interface {
	// Upload stores an object under the given key.
	Upload(ctx context.Context, key, contentType string, body io.Reader) error

	// DownloadURL returns a time-limited presigned URL for reading a photo.
	DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context) error

	// Health checks that the bucket is reachable.
	Health(ctx context.Context) error
}

type service struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// New creates a storage service from S3_* environment variables.
func New(ctx context.Context) (Service, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET_NAME")
	useSSL := os.Getenv("S3_USE_SSL") == "true"

	if endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT environment variable is required")
	}
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY environment variables are required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME environment variable is required")
	}

	protocol := "http"
	if useSSL {
		protocol = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", protocol, endpoint)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Path-style addressing is required for MinIO
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
	})

	s := &service{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}

	if err := s.EnsureBucketExists(ctx); err != nil {
		slog.Warn("Failed to ensure photo bucket exists", "bucket", bucket, "error", err.Error())
	}

	return s, nil
}

func (s *service) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	if key == "" {
		return fmt.Errorf("photo key cannot be empty")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload photo %s: %w", key, err)
	}

	return nil
}

func (s *service) DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("photo key cannot be empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("TTL must be positive")
	}

	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download URL for %s: %w", key, err)
	}

	return request.URL, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("photo key cannot be empty")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", key, err)
	}

	return nil
}

func (s *service) EnsureBucketExists(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	slog.Info("Created photo bucket", "bucket", s.bucket)
	return nil
}

func (s *service) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}

	return nil
}
