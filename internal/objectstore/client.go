package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/spec-kit/qa-admin-service/internal/config"
)

// Uploader puts objects into a bucket and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
}

// Client wraps an S3-compatible object storage service.
type Client struct {
	s3Client *s3.Client
	cfg      config.StorageConfig
	logger   *zap.Logger
}

// NewClient builds the S3 client. Non-AWS endpoints (Supabase storage,
// Backblaze, MinIO) require path-style addressing.
func NewClient(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	logger.Info("object storage client initialized",
		zap.String("default_bucket", cfg.DefaultBucket),
		zap.String("endpoint", cfg.EndpointURL))
	return &Client{s3Client: s3Client, cfg: cfg, logger: logger}, nil
}

// Upload stores the object and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if bucket == "" {
		bucket = c.cfg.DefaultBucket
	}
	if contentType == "" {
		contentType = ContentTypeForExt(filepath.Ext(key))
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to %s: %w", bucket, err)
	}

	url := c.PublicURL(bucket, key)
	c.logger.Info("uploaded object",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(data)))
	return url, nil
}

// PublicURL renders the externally reachable URL for an object.
func (c *Client) PublicURL(bucket, key string) string {
	if c.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.cfg.PublicBaseURL, "/"), bucket, key)
	}
	if c.cfg.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.cfg.EndpointURL, "/"), bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, c.cfg.Region, key)
}

// Ping checks that the default bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.DefaultBucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.cfg.DefaultBucket, err)
	}
	return nil
}

// ContentTypeForExt returns the MIME type for common screenshot extensions.
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}
