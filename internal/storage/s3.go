// internal/storage/s3.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader is the blob-store capability the handlers depend on: write
// bytes at a path, get back a retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

const maxUploadBytes = 5 * 1024 * 1024

// S3Client stores clip thumbnails in an S3-compatible bucket and serves
// them from a public base URL.
type S3Client struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type S3Config struct {
	Endpoint  string
	Bucket    string
	PublicURL string
	Region    string
}

func NewS3Client(cfg S3Config) (*S3Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoint for R2/MinIO style deployments
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Client{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// Upload writes the object and returns its public URL. No retries: a
// failed upload surfaces to the caller as a provider error.
func (s *S3Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload data")
	}
	if len(data) > maxUploadBytes {
		return "", fmt.Errorf("upload too large: %d bytes", len(data))
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return s.publicURL + "/" + path, nil
}
