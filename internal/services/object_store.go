package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"jobfit/resume-ranker/internal/config"
	"jobfit/resume-ranker/internal/models"
)

// ObjectStore reads resumes kept in an S3 compatible bucket.
type ObjectStore interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

type s3ObjectStore struct {
	client *s3.Client
	bucket string
}

// NewS3ObjectStore builds a client from the default AWS chain, or from static
// keys when they are configured. A custom endpoint enables R2 or MinIO.
func NewS3ObjectStore(ctx context.Context, cfg config.S3Config) (ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

// ListKeys returns the keys under prefix in lexical order, skipping folders.
func (s *s3ObjectStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (s *s3ObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

// LoadResumes downloads every supported resume under prefix. Each resume is
// named by its full object key. Objects that fail to download carry the error
// and rank as failed extractions.
func LoadResumes(ctx context.Context, store ObjectStore, prefix string) ([]models.ResumeFile, error) {
	keys, err := store.ListKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var files []models.ResumeFile
	for _, key := range keys {
		if !allowedExtensions[strings.ToLower(filepath.Ext(key))] {
			continue
		}

		data, err := store.Download(ctx, key)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		files = append(files, models.ResumeFile{
			Name: key,
			Data: data,
			Err:  err,
		})
	}

	return files, nil
}
