package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Archive stores pages in an S3 bucket.
type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive creates a new S3-backed archive.
func NewS3Archive(client *s3.Client, bucket string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
	}
}

// Save uploads the body under the given key.
func (a *S3Archive) Save(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("uploading to S3: %w", err)
	}
	return nil
}
