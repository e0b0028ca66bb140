// Package storage uploads report exports to S3-compatible object
// storage (Cloudflare R2).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	appconfig "vyapar-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("object storage not configured")

type R2Client struct {
	client *s3.Client
	bucket string
}

// NewR2Client returns nil without error when R2 settings are absent;
// exports then stay download-only.
func NewR2Client(cfg *appconfig.Config) (*R2Client, error) {
	if cfg.R2.AccountEndpoint == "" || cfg.R2.AccessKey == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2.AccessKey, cfg.R2.SecretKey, "",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2.AccountEndpoint)
	})

	log.Printf("[Storage] R2 export bucket %q configured", cfg.R2.Bucket)
	return &R2Client{client: client, bucket: cfg.R2.Bucket}, nil
}

// Upload stores data under key and returns the object key.
func (c *R2Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
