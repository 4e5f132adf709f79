package filestore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores documents as objects in a single bucket. Handles are object keys.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

func NewS3(client S3API, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds an S3 client from the default AWS credential chain.
// A non-empty endpoint targets an S3-compatible service with path-style
// addressing.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *S3) Upload(ctx context.Context, doc Document) (Handle, error) {
	key := objectKey(s.prefix, doc)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   doc.Body,
		Metadata: map[string]string{
			"owner-id": doc.OwnerID.String(),
			"kind":     string(doc.Kind),
		},
	}
	if doc.ContentType != "" {
		input.ContentType = aws.String(doc.ContentType)
	}
	if doc.Size > 0 {
		input.ContentLength = aws.Int64(doc.Size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return Handle(key), nil
}

func (s *S3) Delete(ctx context.Context, handle Handle) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(handle)),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", handle, err)
	}
	return nil
}
