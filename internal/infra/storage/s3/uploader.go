package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// proofPrefix is the key namespace revenue-proof documents live under. The
// anonymous read policy is scoped to this prefix so nothing else that lands
// in the bucket becomes world-readable.
const proofPrefix = "revenue-proofs/"

// allowedProofTypes lists the formats the listing review tooling can open.
var allowedProofTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// ErrUnsupportedType marks an upload whose content type the review tooling
// cannot display.
var ErrUnsupportedType = errors.New("s3: unsupported proof content type")

// Uploader stores a revenue-proof document and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
}

// Client stores proofs in an S3-compatible bucket.
type Client struct {
	bucket        string
	publicBaseURL string
	client        *minio.Client
	logger        *slog.Logger

	initOnce sync.Once
	initErr  error
}

// NewClient configures the uploader for the given endpoint and credentials.
func NewClient(endpoint string, useSSL bool, accessKey, secretKey, bucket, publicBaseURL string, logger *slog.Logger) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	mc, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	base := strings.TrimSpace(publicBaseURL)
	if base == "" {
		base = endpoint
	}
	return &Client{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		client:        mc,
		logger:        logger,
	}, nil
}

// Upload validates the document type, stores it under the proof prefix, and
// returns the URL the sell wizard embeds in its submission payload.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	if _, ok := allowedProofTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if !strings.HasPrefix(key, proofPrefix) {
		key = proofPrefix + key
	}
	if err := c.init(ctx); err != nil {
		return "", err
	}
	if _, err := c.client.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	publicURL := c.publicBaseURL + "/" + c.bucket + "/" + key
	if c.logger != nil {
		c.logger.Debug("proof stored", "bucket", c.bucket, "key", key)
	}
	return publicURL, nil
}

// init creates the bucket on first use and grants anonymous reads on the
// proof prefix only, so the backend's review tooling can fetch documents
// without gateway credentials.
func (c *Client) init(ctx context.Context) error {
	c.initOnce.Do(func() {
		exists, err := c.client.BucketExists(ctx, c.bucket)
		if err != nil {
			c.initErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if !exists {
			if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
				c.initErr = fmt.Errorf("s3: create bucket: %w", err)
				return
			}
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s*"]}]}`, c.bucket, proofPrefix)
		if err := c.client.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
			c.initErr = fmt.Errorf("s3: set bucket policy: %w", err)
		}
	})
	return c.initErr
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

// NoopUploader fails fast when object storage is not configured.
type NoopUploader struct{}

func (NoopUploader) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", errors.New("s3 uploader is not configured")
}

var (
	_ Uploader = (*Client)(nil)
	_ Uploader = NoopUploader{}
)
