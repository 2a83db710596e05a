package mediastore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectAPI is the part of the S3 client the gateway uses
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Store implements Gateway on an S3 compatible bucket
type s3Store struct {
	inspector
	client  ObjectAPI
	bucket  string
	baseURL string
}

// NewS3Store creates a gateway writing objects to bucket; object URLs are baseURL + "/" + key
func NewS3Store(client ObjectAPI, bucket, baseURL string, prober DurationProber, logger *zap.Logger) *s3Store {
	return &s3Store{
		inspector: inspector{prober: prober, logger: logger},
		client:    client,
		bucket:    bucket,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// ObjectBaseURL returns the public URL prefix of objects in bucket.
// An explicit public URL wins, a custom endpoint implies path-style addressing,
// otherwise the AWS virtual-hosted style is used.
func ObjectBaseURL(bucket, region, endpoint, publicBaseURL string) string {
	switch {
	case publicBaseURL != "":
		return strings.TrimRight(publicBaseURL, "/")
	case endpoint != "":
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
}

// Upload puts the file into the bucket under <kind>/<uuid><ext>
func (s *s3Store) Upload(ctx context.Context, localPath string) (*Asset, error) {
	info, err := s.inspect(ctx, localPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	key := info.kind + "/" + GenerateFileName(info.extension)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(info.contentType),
		ContentLength: aws.Int64(info.size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &Asset{
		URL:         s.baseURL + "/" + key,
		ContentType: info.contentType,
		Size:        info.size,
		Duration:    info.duration,
	}, nil
}

// Delete removes the object the URL points at
func (s *s3Store) Delete(ctx context.Context, remoteURL string) error {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(remoteURL, prefix) {
		return ErrForeignURL
	}
	key := strings.TrimPrefix(remoteURL, prefix)
	if key == "" {
		return ErrForeignURL
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
