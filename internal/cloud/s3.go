package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ANIKETSHETTY47/energy-scenario-simulator/internal/visualization"
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Exporter stores visualization payloads so the presentation layer can
// fetch them later.
type S3Exporter struct {
	svc     s3API
	presign s3Presigner
	bucket  string
	now     func() time.Time
}

func NewS3Exporter(ctx context.Context, region, bucket string) (*S3Exporter, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	svc := s3.NewFromConfig(cfg)
	return &S3Exporter{
		svc:     svc,
		presign: s3.NewPresignClient(svc),
		bucket:  bucket,
		now:     time.Now,
	}, nil
}

// ExportKey builds the object key for a visualization result.
func ExportKey(res visualization.Result, at time.Time) string {
	name := "empty"
	if len(res.Details) > 0 {
		name = res.Details[0].Name
	}
	return fmt.Sprintf("visualizations/%s/%s-%d.json", res.Kind, name, at.UnixNano())
}

// ExportResult uploads the result as JSON and returns a presigned download URL.
func (c *S3Exporter) ExportResult(ctx context.Context, res visualization.Result) (string, error) {
	body, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to marshal visualization: %w", err)
	}

	now := c.now()
	key := ExportKey(res, now)
	_, err = c.svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"uploaded-at": now.Format(time.RFC3339),
			"graph-type":  string(res.Kind),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	presigned, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 1 * time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presigned.URL, nil
}
