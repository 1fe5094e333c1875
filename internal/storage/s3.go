// Package storage provides presigned-URL access to the S3-compatible
// bucket holding estimate photos. The browser uploads directly; the
// server only hands out short-lived PUT URLs and records object keys.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/spotlesscleaning/site-server-go/internal/config"
)

type ObjectStore struct {
	bucket  string
	presign *s3.PresignClient
}

func NewObjectStore(cfg *config.Config) (*ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ObjectStore{
		bucket:  cfg.S3Bucket,
		presign: s3.NewPresignClient(client),
	}, nil
}

// objectKey partitions uploads by date so the bucket stays browsable.
func objectKey() string {
	d := time.Now()
	return fmt.Sprintf("estimates/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// PresignUpload returns a fresh object key and a presigned PUT URL for it.
func (s *ObjectStore) PresignUpload(ctx context.Context, contentType string) (string, string, error) {
	key := objectKey()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(config.UploadURLExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign put: %w", err)
	}

	return key, req.URL, nil
}
