package checks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"shelter-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// SnapshotReport describes the newest crawl snapshot.
type SnapshotReport struct {
	Status       string    `json:"status"` // "ok", "stale", "missing"
	Key          string    `json:"key,omitempty"`
	LastModified time.Time `json:"last_modified,omitzero"`
	Age          string    `json:"age,omitempty"`
}

func folder(prefix string) string {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func ensureBucket(ctx context.Context, client storage.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return nil
}

// CheckPrefixes returns the prefixes that hold no object.
func CheckPrefixes(ctx context.Context, client storage.Client, bucket string, prefixes []string) ([]string, error) {
	if err := ensureBucket(ctx, client, bucket); err != nil {
		return nil, err
	}

	missing := []string{}
	for _, p := range prefixes {
		opts := minio.ListObjectsOptions{
			Prefix:    folder(p),
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", p, obj.Err)
			}
			found = true
			break
		}

		if !found {
			missing = append(missing, p)
		}
	}

	return missing, nil
}

// FixPrefixes creates an empty folder marker for every missing prefix.
func FixPrefixes(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, missing []string) error {
	for _, p := range missing {
		_, err := client.PutObject(ctx, bucket, folder(p), bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("prefix", p), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("prefix", p))
	}
	return nil
}

// CheckSnapshot reports whether a crawl snapshot younger than maxAge exists under prefix.
// A zero maxAge disables the staleness check.
func CheckSnapshot(ctx context.Context, client storage.Client, bucket, prefix string, maxAge time.Duration, now time.Time) (*SnapshotReport, error) {
	objs, err := storage.ListAll(ctx, client, bucket, folder(prefix), true)
	if err != nil {
		return nil, err
	}

	var newest *minio.ObjectInfo
	for i := range objs {
		if !strings.EqualFold(path.Ext(objs[i].Key), ".json") {
			continue
		}
		if newest == nil || objs[i].LastModified.After(newest.LastModified) {
			newest = &objs[i]
		}
	}
	if newest == nil {
		return &SnapshotReport{Status: "missing"}, nil
	}

	age := now.Sub(newest.LastModified)
	report := &SnapshotReport{
		Status:       "ok",
		Key:          newest.Key,
		LastModified: newest.LastModified,
		Age:          age.Round(time.Second).String(),
	}
	if maxAge > 0 && age > maxAge {
		report.Status = "stale"
	}
	return report, nil
}
