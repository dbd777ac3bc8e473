// Package s3store implements an object-store-backed DictionaryStore.
// Dictionary pages are stored one object per column under a configurable
// prefix, serialized as a little-endian entry count followed by PLAIN
// encoded values (see codec.go).
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/spogiri123/iceberg"
)

// Store reads and writes dictionary pages in an S3-compatible bucket.
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// New builds a Store from the given configuration. Custom endpoints (MinIO
// and other S3-compatible services) use path-style addressing when
// cfg.UsePathStyle is set. Static credentials are used when provided;
// otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg iceberg.StoreConfig) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, iceberg.NewStoreUnavailableError("store bucket is required", nil)
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	if cfg.Endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, iceberg.NewStoreUnavailableError("load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing S3 client, mainly for tests.
func NewWithClient(client *s3.Client, cfg iceberg.StoreConfig) *Store {
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}
}

// ReadDictionary implements iceberg.DictionaryStore. A missing object is a
// column without a dictionary page and yields a nil page, not an error.
func (s *Store) ReadDictionary(ctx context.Context, column iceberg.ColumnDescriptor) (iceberg.DictionaryPage, error) {
	key := s.key(column.Path)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			zap.S().Debugw("no dictionary page object", "bucket", s.bucket, "key", key)
			return nil, nil
		}
		return nil, fmt.Errorf("get dictionary object '%s': %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read dictionary object '%s': %w", key, err)
	}

	count, payload, err := splitHeader(data)
	if err != nil {
		return nil, iceberg.NewDictionaryDecodeError(column.Path.String(), err)
	}
	return &page{column: column, count: count, payload: payload}, nil
}

// WriteDictionary serializes values with the PLAIN codec and uploads the
// page object for the column. It is used by writers and test seeding.
func (s *Store) WriteDictionary(ctx context.Context, column iceberg.ColumnDescriptor, values []any) error {
	data, err := EncodePlain(column, values)
	if err != nil {
		return err
	}
	key := s.key(column.Path)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("upload dictionary object '%s': %w", key, err)
	}
	return nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		return nil
	}
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			code := apiErr.ErrorCode()
			if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
				return nil
			}
		}
		return fmt.Errorf("create bucket '%s': %w", s.bucket, err)
	}
	return nil
}

func (s *Store) key(columnPath iceberg.ColumnPath) string {
	return path.Join(s.prefix, columnPath.String()+".dict")
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

type page struct {
	column  iceberg.ColumnDescriptor
	count   int
	payload []byte
}

func (p *page) NumValues() int {
	return p.count
}

func (p *page) Decode() ([]any, error) {
	values, err := DecodePlain(p.column, p.count, p.payload)
	if err != nil {
		return nil, iceberg.NewDictionaryDecodeError(p.column.Path.String(), err)
	}
	return values, nil
}
