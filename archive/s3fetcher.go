package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Fetcher downloads task archives from an S3 bucket. Objects are keyed
// by their content hash as "<archiveID>.tar.zst".
type S3Fetcher struct {
	client *s3.Client
	bucket string
}

func NewS3Fetcher(region string, bucket string) (*S3Fetcher, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &S3Fetcher{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

var ErrArchiveNotFound = errors.New("archive not found")

func (f *S3Fetcher) Fetch(ctx context.Context, archiveID string) (io.ReadCloser, error) {
	key := archiveID + ".tar.zst"
	output, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	})
	if err != nil {
		var responseError *awshttp.ResponseError
		if errors.As(err, &responseError) && responseError.HTTPStatusCode() == 404 {
			return nil, ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return output.Body, nil
}
