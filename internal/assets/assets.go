// Package assets resolves the image reference stored on newly created venues.
package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eventsg/backend/internal/config"
	"github.com/eventsg/backend/internal/domain/venues"
)

// Static always returns the same image reference.
type Static struct {
	url string
}

func NewStatic(url string) *Static {
	return &Static{url: url}
}

func (s *Static) DefaultVenueImage(context.Context) (string, error) {
	return s.url, nil
}

const s3Scheme = "s3://"

// S3 stores venues with an s3://bucket/key reference to a fixed object and
// presigns a GET URL for that reference whenever a venue is read.
type S3 struct {
	client *s3.PresignClient
	bucket string
	key    string
	expiry time.Duration
}

func NewS3(ctx context.Context, cfg config.AssetsConfig) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &S3{
		client: s3.NewPresignClient(client),
		bucket: cfg.S3Bucket,
		key:    cfg.S3Key,
		expiry: expiry,
	}, nil
}

// DefaultVenueImage returns the stable reference of the configured object.
func (s *S3) DefaultVenueImage(context.Context) (string, error) {
	return s3Scheme + s.bucket + "/" + s.key, nil
}

// ImageURL presigns a GET for an s3:// reference. Any other reference is
// returned unchanged.
func (s *S3) ImageURL(ctx context.Context, ref string) (string, error) {
	bucket, key, ok := parseS3Ref(ref)
	if !ok {
		return ref, nil
	}
	req, err := s.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

func parseS3Ref(ref string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(ref, s3Scheme)
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// New picks the resolver named by cfg.Backend.
func New(ctx context.Context, cfg config.AssetsConfig) (venues.ImageResolver, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "static":
		return NewStatic(cfg.DefaultVenueImage), nil
	case "s3":
		resolver, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return resolver, nil
	default:
		return nil, fmt.Errorf("unsupported assets backend %q", cfg.Backend)
	}
}
