package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// ObjectAPI is the subset of *s3.Client the store calls.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

const recordSuffix = ".json"

// S3Store writes one JSON object per record under prefix.
type S3Store struct {
	cli    ObjectAPI
	bucket string
	prefix string
	codec  blockcodec.Algorithm

	mu     sync.RWMutex
	closed bool
}

// NewS3Store builds a store on cli. prefix may be empty; a trailing slash is added.
func NewS3Store(cli ObjectAPI, bucket, prefix string, codec blockcodec.Algorithm) (*S3Store, error) {
	if cli == nil {
		return nil, errors.New("history: s3 client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("history: s3 bucket is required")
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Store{cli: cli, bucket: bucket, prefix: prefix, codec: codec}, nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + id + recordSuffix
}

func (s *S3Store) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *S3Store) Save(ctx context.Context, rec types.HistoryRecord) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	if err := s.check(); err != nil {
		return err
	}
	data, err := encodeRecord(rec, s.codec)
	if err != nil {
		return err
	}

	_, err = s.cli.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(rec.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", s.key(rec.ID), err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, id string) (types.HistoryRecord, error) {
	if err := validateID(id); err != nil {
		return types.HistoryRecord{}, err
	}
	if err := s.check(); err != nil {
		return types.HistoryRecord{}, err
	}
	return s.getKey(ctx, s.key(id))
}

func (s *S3Store) getKey(ctx context.Context, key string) (types.HistoryRecord, error) {
	out, err := s.cli.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return types.HistoryRecord{}, ErrNotFound
		}
		return types.HistoryRecord{}, fmt.Errorf("get %s: %w", key, err)
	}
	data, err := io.ReadAll(out.Body)
	_ = out.Body.Close()
	if err != nil {
		return types.HistoryRecord{}, fmt.Errorf("read %s: %w", key, err)
	}
	return decodeRecord(data)
}

// List reads every record under the prefix, following continuation tokens.
func (s *S3Store) List(ctx context.Context, limit int) ([]types.HistoryRecord, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	keys, err := s.listKeys(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.HistoryRecord, 0, len(keys))
	for _, key := range keys {
		rec, err := s.getKey(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	sortNewestFirst(out)
	return applyLimit(out, limit), nil
}

func (s *S3Store) listKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var token *string
	for {
		page, err := s.cli.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", s.prefix, err)
		}
		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)
			if !strings.HasSuffix(k, recordSuffix) || strings.Contains(strings.TrimPrefix(k, s.prefix), "/") {
				continue
			}
			keys = append(keys, k)
		}
		if !aws.ToBool(page.IsTruncated) || page.NextContinuationToken == nil {
			return keys, nil
		}
		token = page.NextContinuationToken
	}
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.check(); err != nil {
		return err
	}
	key := s.key(id)

	if _, err := s.cli.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("head %s: %w", key, err)
	}

	if _, err := s.cli.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close marks the store closed. The S3 client is owned by the caller.
func (s *S3Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *s3types.NotFound
	return errors.As(err, &nf)
}
