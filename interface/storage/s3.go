package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/airbusgeo/geocube-stac/service"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures the access to an S3 or S3-compatible storage
type S3Config struct {
	// Endpoint of an S3-compatible storage (empty for AWS)
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Lister implements Lister for S3
type S3Lister struct {
	client *s3.Client
}

// NewS3Lister creates a new S3Lister.
// Without access key, the default credentials chain is used.
func NewS3Lister(ctx context.Context, cfg S3Config) (*S3Lister, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewS3Lister.LoadDefaultConfig: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Lister{client: client}, nil
}

// ListFiles implements Lister
func (l *S3Lister) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	bucket, prefix, err := splitBucket(dir)
	if err != nil {
		return nil, fmt.Errorf("S3Lister.%w", err)
	}
	paginator := s3.NewListObjectsV2Paginator(l.client,
		&s3.ListObjectsV2Input{
			Bucket:    aws.String(bucket),
			Prefix:    aws.String(prefix),
			Delimiter: aws.String("/"),
		},
		func(o *s3.ListObjectsV2PaginatorOptions) {
			o.Limit = 200
		},
	)

	var files []string
	found := false
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var nsb *types.NoSuchBucket
			if errors.As(err, &nsb) {
				return nil, service.ErrFileNotFound{File: dir}
			}
			return nil, fmt.Errorf("S3Lister.NextPage[%s/%s]: %w", bucket, prefix, err)
		}
		found = found || len(page.Contents) > 0 || len(page.CommonPrefixes) > 0
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if key == prefix {
				continue
			}
			files = append(files, "s3://"+bucket+"/"+key)
		}
	}
	if !found {
		return nil, service.ErrFileNotFound{File: dir}
	}
	return filterSort(files, ext), nil
}
