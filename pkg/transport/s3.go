package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/sfap/pkg/resource"
)

// DefaultRegion is used when S3Config.Region is empty.
const DefaultRegion = "us-east-1"

// S3API is the subset of the S3 client the transport needs.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	// Endpoint is set for MinIO and other S3-compatible services.
	Endpoint string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region   string `yaml:"region" env:"S3_REGION" envDefault:"us-east-1"`
	// Prefix is prepended to every object key, e.g. "site/".
	Prefix    string `yaml:"prefix" env:"S3_PREFIX"`
	PathStyle bool   `yaml:"path_style" env:"S3_PATH_STYLE"`
}

func (c *S3Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("%w: bucket, access key and secret key are required", ErrInvalidConfig)
	}
	return nil
}

// S3 reads resources from objects keyed by Prefix + path without the leading slash.
type S3 struct {
	client  S3API
	bucket  string
	prefix  string
	maxSize int64
}

// NewS3 creates a transport with a client built from cfg.
func NewS3(cfg S3Config) (*S3, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return NewS3WithClient(s3.New(s3.Options{}, opts...), cfg.Bucket, cfg.Prefix), nil
}

// NewS3WithClient creates a transport around an existing client.
func NewS3WithClient(client S3API, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix, maxSize: DefaultMaxSize}
}

func (t *S3) Fetch(ctx context.Context, kind resource.Kind, path string) ([]byte, error) {
	key := t.prefix + strings.TrimPrefix(path, "/")

	out, err := t.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, key)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, t.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > t.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, key)
	}
	return body, nil
}

// wrapS3Error maps S3 errors onto resource.ErrNotFound and ErrAccessDenied.
func wrapS3Error(err error, key string) error {
	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s: %v", resource.ErrNotFound, key, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s: %v", resource.ErrNotFound, key, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %s: %v", ErrAccessDenied, key, err)
		}
	}
	return err
}
