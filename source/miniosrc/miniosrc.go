// Package miniosrc reads model files stored in MinIO or any S3 compatible
// object store as a cvdnn.Source.
package miniosrc

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	cvdnn "github.com/swdee/go-cvdnn"
)

// Getter is the subset of *minio.Client used to fetch objects
type Getter interface {
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// Config holds the connection settings of a MinIO endpoint
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// NewClient creates a MinIO client with static credentials
func NewClient(cfg Config) (*minio.Client, error) {

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})

	if err != nil {
		return nil, fmt.Errorf("error creating minio client: %w", err)
	}

	return client, nil
}

// Object is a Source over a single stored object
type Object struct {
	ctx    context.Context
	client Getter
	bucket string
	key    string
}

// New returns a Source that downloads bucket/key when its bytes are needed
func New(ctx context.Context, client Getter, bucket, key string) *Object {
	return &Object{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
	}
}

// Bytes downloads the object
func (o *Object) Bytes() ([]byte, error) {

	if o.client == nil {
		return nil, &cvdnn.ArgumentError{Name: "client", Reason: "must not be nil"}
	}

	obj, err := o.client.GetObject(o.ctx, o.bucket, o.key, minio.GetObjectOptions{})

	if err != nil {
		return nil, fmt.Errorf("error getting object %s/%s: %w", o.bucket, o.key, err)
	}

	defer obj.Close()

	data, err := cvdnn.Stream(obj).Bytes()

	if err != nil {
		var errResp minio.ErrorResponse

		if errors.As(err, &errResp) && (errResp.Code == "NoSuchKey" || errResp.Code == "NotFound") {
			return nil, fmt.Errorf("object %s/%s not found: %w", o.bucket, o.key, err)
		}

		return nil, err
	}

	return data, nil
}

// String returns the object location
func (o *Object) String() string {
	return fmt.Sprintf("minio://%s/%s", o.bucket, o.key)
}
