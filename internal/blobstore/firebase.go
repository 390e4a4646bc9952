package blobstore

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// Firebase stores objects in a Firebase Storage bucket with public-read
// ACLs.
type Firebase struct {
	bucket *gcs.BucketHandle
	name   string
}

func NewFirebase(ctx context.Context, app *firebase.App, bucketName string) (*Firebase, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("firebase storage bucket %s: %w", bucketName, err)
	}
	return &Firebase{bucket: bucket, name: bucketName}, nil
}

func (f *Firebase) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := ObjectKey(filename)

	w := f.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = "publicRead"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", f.name, key), nil
}
