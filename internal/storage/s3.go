// Package storage writes published media to an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/media"
)

const (
	uploadPartSize = 8 << 20
	cacheControl   = "public, max-age=31536000, immutable"
)

// S3Storage is a media.Storage over one bucket. Objects are written public-read
// and addressed through PublicBaseURL when one is configured.
type S3Storage struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  *url.URL
}

// NewS3Storage builds the client from the default AWS credential chain.
// Endpoint overrides the service endpoint for MinIO-style stores.
func NewS3Storage(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Storage, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3 storage: bucket is required")
	}

	var base *url.URL
	if raw := strings.TrimSpace(cfg.PublicBaseURL); raw != "" {
		parsed, err := url.Parse(strings.TrimSuffix(raw, "/"))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("s3 storage: invalid public base url %q", raw)
		}
		base = parsed
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = uploadPartSize
			u.LeavePartsOnError = false
		}),
		bucket:  bucket,
		baseURL: base,
	}, nil
}

// Save streams r to key and returns the object's public location. A missing or
// generic contentType is replaced by the type registered for the key's extension.
func (s *S3Storage) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key = strings.TrimLeft(path.Clean("/"+key), "/")
	if key == "" {
		return "", errors.New("s3 storage: empty key")
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ACL:          s3types.ObjectCannedACLPublicRead,
		CacheControl: aws.String(cacheControl),
	}
	if ct := objectContentType(key, contentType); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("s3 storage upload %s: %w", key, err)
	}
	return s.location(key), nil
}

func objectContentType(key, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return declared
}

func (s *S3Storage) location(key string) string {
	if s.baseURL == nil {
		return fmt.Sprintf("s3://%s/%s", s.bucket, key)
	}
	return s.baseURL.JoinPath(key).String()
}

var _ media.Storage = (*S3Storage)(nil)
