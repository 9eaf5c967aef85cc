package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"shelter-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// StorageSink archives cycle results as JSON objects under <prefix>/<source>/<cycle_id>.json.
type StorageSink struct {
	client storage.Client
	bucket string
	prefix string
}

// NewStorageSink creates a sink writing into bucket under prefix.
func NewStorageSink(client storage.Client, bucket, prefix string) *StorageSink {
	if prefix == "" {
		prefix = "reports"
	}
	return &StorageSink{client: client, bucket: bucket, prefix: prefix}
}

// ObjectName returns the object key used for res.
func (s *StorageSink) ObjectName(res *Result) string {
	return path.Join(s.prefix, res.Source, res.CycleID+".json")
}

// Save uploads res.
func (s *StorageSink) Save(ctx context.Context, res *Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.ObjectName(res), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}
