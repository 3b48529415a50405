// Package s3src reads model files stored in Amazon S3 as a cvdnn.Source,
// downloading large objects with concurrent ranged requests.
package s3src

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cvdnn "github.com/swdee/go-cvdnn"
)

// NewClient creates an S3 client from the default AWS configuration chain
func NewClient(ctx context.Context, region string) (*s3.Client, error) {

	var opts []func(*config.LoadOptions) error

	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)

	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}

// Object is a Source over a single S3 object
type Object struct {
	ctx        context.Context
	downloader *manager.Downloader
	bucket     string
	key        string
}

// Option configures the downloader
type Option func(*manager.Downloader)

// WithPartSize sets the size of each ranged request
func WithPartSize(size int64) Option {
	return func(d *manager.Downloader) {
		d.PartSize = size
	}
}

// WithConcurrency sets the number of parts downloaded in parallel
func WithConcurrency(n int) Option {
	return func(d *manager.Downloader) {
		d.Concurrency = n
	}
}

// New returns a Source that downloads bucket/key when its bytes are needed
func New(ctx context.Context, client manager.DownloadAPIClient, bucket, key string, opts ...Option) *Object {

	var downloader *manager.Downloader

	if client != nil {
		downloader = manager.NewDownloader(client, func(d *manager.Downloader) {
			for _, opt := range opts {
				opt(d)
			}
		})
	}

	return &Object{
		ctx:        ctx,
		downloader: downloader,
		bucket:     bucket,
		key:        key,
	}
}

// Bytes downloads the object
func (o *Object) Bytes() ([]byte, error) {

	if o.downloader == nil {
		return nil, &cvdnn.ArgumentError{Name: "client", Reason: "must not be nil"}
	}

	buf := manager.NewWriteAtBuffer(nil)

	_, err := o.downloader.Download(o.ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})

	if err != nil {
		return nil, fmt.Errorf("error downloading s3://%s/%s: %w", o.bucket, o.key, err)
	}

	data := buf.Bytes()

	if data == nil {
		data = []byte{}
	}

	return data, nil
}

// String returns the object location
func (o *Object) String() string {
	return fmt.Sprintf("s3://%s/%s", o.bucket, o.key)
}
