package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Archiver keeps a copy of the raw uploaded spreadsheet before the local
// temp file is released, so failed imports can be inspected afterwards.
// Archiving is best effort; the import result never depends on it.
type Archiver interface {
	// Store uploads the raw file body under the given key.
	Store(ctx context.Context, key string, body io.Reader) error
}

// s3Archiver implements Archiver on AWS S3.
type s3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver creates an S3-backed upload archiver.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "s3-upload-archiver").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 upload archiver initialised")

	return &s3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

func (a *s3Archiver) Store(ctx context.Context, key string, body io.Reader) error {
	fullKey := a.prefix + key

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(fullKey),
		Body:   body,
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", fullKey).
			Msg("failed to archive upload to S3")
		return fmt.Errorf("failed to archive upload to S3 (bucket=%s, key=%s): %w", a.bucket, fullKey, err)
	}

	a.logger.Info().
		Str("bucket", a.bucket).
		Str("key", fullKey).
		Msg("upload archived to S3")

	return nil
}

// noopArchiver is used when S3 archiving is disabled.
type noopArchiver struct{}

// NewNoopArchiver returns an archiver that stores nothing.
func NewNoopArchiver() Archiver {
	return noopArchiver{}
}

func (noopArchiver) Store(context.Context, string, io.Reader) error { return nil }
