package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrObjectNotFound is returned when the requested object does not exist,
// typically because it was deleted before the trigger ran.
var ErrObjectNotFound = errors.New("object not found")

// Opener reads objects through a shared Cloud Storage client. It is safe
// for concurrent use.
type Opener struct {
	client *storage.Client
}

// NewOpener creates an Opener. connection is the value of the storage
// connection setting: empty selects the default endpoint and application
// default credentials, anything else is used as an unauthenticated endpoint
// URL, such as a local storage emulator.
func NewOpener(ctx context.Context, connection string) (*Opener, error) {
	var opts []option.ClientOption
	if connection != "" {
		opts = append(opts, option.WithEndpoint(connection), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Opener{client: client}, nil
}

// Open returns a reader over the current generation of bucket/object.
// The caller must close it.
func (o *Opener) Open(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	r, err := o.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, object)
		}
		return nil, fmt.Errorf("failed to open %s/%s: %w", bucket, object, err)
	}
	return r, nil
}

// Close releases the underlying client.
func (o *Opener) Close() error {
	return o.client.Close()
}
