// Package s3store implements gointl.ObjectStore on Amazon S3 and S3-compatible services.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/ZaguanLabs/gointl"
)

// Config holds S3 configuration.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // For S3-compatible storage (MinIO, etc.)
	AccessKey string
	SecretKey string
	BaseURL   string // Public URL prefix for download URLs; derived from bucket and region when empty
}

// Store implements gointl.ObjectStore for S3.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store from cfg, loading the default AWS credential chain
// unless static keys are given.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	// Use explicit credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return NewFromClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, baseURL, opts...), nil
}

// NewFromClient creates a Store around an existing S3 client.
func NewFromClient(client *s3.Client, bucket, baseURL string, opts ...Option) *Store {
	s := &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get downloads the object under key. Missing objects return an error wrapping gointl.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &gointl.StoreError{Op: "get", Key: key, Cause: gointl.ErrNotFound}
		}
		return nil, s.storeError("get", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, s.storeError("get", key, err)
	}

	return body, nil
}

// Save uploads body under key, replacing any existing object.
func (s *Store) Save(ctx context.Context, key string, body []byte, contentType string, visibility gointl.Visibility) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACL(visibility),
	})
	if err != nil {
		return s.storeError("save", key, err)
	}

	s.logger.Debug("object uploaded to S3", zap.String("key", key), zap.Int("size", len(body)))
	return nil
}

// List returns every key in the bucket starting with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.storeError("list", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

// DownloadURL returns the public URL for key.
func (s *Store) DownloadURL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// UploadURL returns a presigned PUT URL bound to key, content type and ACL.
func (s *Store) UploadURL(ctx context.Context, key, contentType string, visibility gointl.Visibility, expires time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACL(visibility),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", s.storeError("upload-url", key, err)
	}

	return req.URL, nil
}

func (s *Store) storeError(op, key string, err error) error {
	s.logger.Error("S3 operation failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
	return &gointl.StoreError{Op: op, Key: key, Cause: err, Retryable: isRetryable(err)}
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.HTTPStatusCode()
		return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
	}
	return false
}

// Verify Store implements gointl.ObjectStore
var _ gointl.ObjectStore = (*Store)(nil)
