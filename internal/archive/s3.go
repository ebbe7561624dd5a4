// Package archive stores raw uploaded extracts in S3 so a bad batch can
// be replayed or audited after the staged working files are cleaned up.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/email-cleanup/internal/config"
)

// S3Archiver uploads raw batch files to an S3 bucket.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archiver builds an archiver from config. Credentials come from the
// default AWS chain, optionally pinned to a shared-config profile.
func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &S3Archiver{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Archive stores one raw extract under a date-partitioned key and returns
// the key written.
func (a *S3Archiver) Archive(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(a.prefix, time.Now().UTC().Format("2006/01/02"), name)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: strPtr("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("archive %s to s3://%s: %w", name, a.bucket, err)
	}
	return key, nil
}

func strPtr(s string) *string { return &s }
