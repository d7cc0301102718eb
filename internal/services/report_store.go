package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ReportStore archives rendered reports.
type ReportStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

type S3ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3ReportStore struct {
	client S3ObjectPutter
	bucket string
	now    func() time.Time
}

// NewS3ReportStore works with AWS S3 and S3-compatible stores. A non-empty
// endpoint switches to path-style addressing.
func NewS3ReportStore(ctx context.Context, bucket, region, endpoint, accessKey, secretKey string) (ReportStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return NewReportStore(client, bucket), nil
}

func NewReportStore(client S3ObjectPutter, bucket string) ReportStore {
	return &s3ReportStore{
		client: client,
		bucket: bucket,
		now:    time.Now,
	}
}

// Save implements ReportStore and returns the object key.
func (s *s3ReportStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	key := path.Join("reports", s.now().UTC().Format("2006/01/02"), ReportFilename(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	return key, nil
}

// ReportFilename is the download name of a candidate's report.
func ReportFilename(filename string) string {
	return path.Base(filename) + "_Report.pdf"
}
