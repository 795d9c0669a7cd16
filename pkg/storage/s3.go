package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 stores objects in an S3-compatible bucket (AWS, MinIO, R2, Spaces).
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("storage/s3: S3_BUCKET is not configured")
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if cfg.S3Key != "" && cfg.S3Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, ""),
		))
	}

	awsConf, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.S3Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		})
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, region)
	}

	return &S3{
		client:  s3.NewFromConfig(awsConf, clientOpts...),
		bucket:  cfg.S3Bucket,
		baseURL: baseURL,
	}, nil
}

func (d *S3) Put(ctx context.Context, p string, r io.Reader, contentType string) error {
	key, err := clean(p)
	if err != nil {
		return err
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := d.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("storage/s3: put %s: %w", key, err)
	}
	return nil
}

func (d *S3) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := clean(p)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage/s3: get %s: %w", key, err)
	}
	return out.Body, nil
}

func (d *S3) Exists(ctx context.Context, p string) (bool, error) {
	key, err := clean(p)
	if err != nil {
		return false, err
	}
	_, err = d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return err == nil, err
}

func (d *S3) Delete(ctx context.Context, p string) error {
	key, err := clean(p)
	if err != nil {
		return err
	}
	_, err = d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage/s3: delete %s: %w", key, err)
	}
	return nil
}

func (d *S3) URL(p string) string {
	return d.baseURL + "/" + strings.TrimLeft(p, "/")
}
