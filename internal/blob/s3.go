package blob

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxPresignTTL is the S3 presigned-URL ceiling (7 days).
const maxPresignTTL = 7 * 24 * time.Hour

// S3Store uploads images to an S3-compatible bucket and hands out presigned
// GET URLs.
type S3Store struct {
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	urlTTL   time.Duration
}

// Compile-time check that S3Store implements Store.
var _ Store = (*S3Store)(nil)

// NewS3Store creates an S3 store. If endpoint is non-empty, path-style
// addressing is enabled (for MinIO and similar). urlTTL of 0 means the
// 7-day presign ceiling.
func NewS3Store(ctx context.Context, bucket, region, endpoint string, urlTTL time.Duration) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	if urlTTL <= 0 || urlTTL > maxPresignTTL {
		urlTTL = maxPresignTTL
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		urlTTL:  urlTTL,
	}, nil
}

// Upload puts the object and returns a presigned GET URL for it.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}

	signed, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}
	return signed.URL, nil
}
