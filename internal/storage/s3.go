package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"markethub/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3FileStore is a FileStore over an S3-compatible bucket (AWS S3, MinIO, ...).
// Stored paths are used as object keys.
type S3FileStore struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// S3Option configures an S3FileStore.
type S3Option func(*S3FileStore)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewS3FileStore creates a store from the S3 settings in cfg.
func NewS3FileStore(ctx context.Context, cfg config.StorageConfig, opts ...S3Option) (*S3FileStore, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})

	store := &S3FileStore{
		client: client,
		bucket: cfg.S3Bucket,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Exists implements FileStore using HeadObject.
func (s *S3FileStore) Exists(ctx context.Context, p string) (bool, error) {
	key := Clean(p)
	if key == "" {
		return false, nil
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		// Some S3-compatible services report a missing key with a bare status code.
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// List implements FileStore. Only keys directly under dir are returned.
func (s *S3FileStore) List(ctx context.Context, dir string) ([]string, error) {
	prefix := Clean(dir)
	if prefix != "" {
		prefix += "/"
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	files := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix || strings.HasSuffix(key, "/") {
				continue
			}
			files = append(files, key)
		}
	}
	sort.Strings(files)

	s.logger.Debug("listed objects", zap.String("bucket", s.bucket), zap.String("prefix", prefix), zap.Int("count", len(files)))
	return files, nil
}
