package mediastore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/videotube/backend/internal/config"
	"go.uber.org/zap"
)

// New builds the gateway selected by cfg.Driver, instrumented with observer
func New(ctx context.Context, cfg config.MediaConfig, observer OperationObserver, logger *zap.Logger) (Gateway, error) {
	prober := NewFFProbe(cfg.FFProbePath)

	var gateway Gateway
	switch cfg.Driver {
	case config.MediaDriverLocal:
		gateway = NewLocalStore(cfg.BasePath, cfg.BaseURL, prober, logger)
	case config.MediaDriverS3:
		client, err := newS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		baseURL := ObjectBaseURL(cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint, cfg.S3.PublicBaseURL)
		gateway = NewS3Store(client, cfg.S3.Bucket, baseURL, prober, logger)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}

	return Instrument(gateway, cfg.Driver, observer), nil
}

// newS3Client loads the AWS configuration, with static credentials when provided
func newS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
