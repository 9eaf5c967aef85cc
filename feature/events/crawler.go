package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"shelter-sync/core/reconcile"
	"shelter-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNoSnapshot is returned when the prefix holds no crawl snapshot.
var ErrNoSnapshot = errors.New("no crawl snapshot found")

// Snapshot is one crawl run as uploaded by the crawler.
type Snapshot struct {
	Key          string
	LastModified time.Time
	Records      []Record
}

// Crawler reads crawl snapshots from object storage.
// The crawler process writes one JSON file per run under the prefix; the newest one wins.
type Crawler struct {
	client    storage.Client
	bucket    string
	prefix    string
	retention int
	logger    *zap.Logger
}

// NewCrawler creates a Crawler over bucket/prefix.
func NewCrawler(client storage.Client, bucket, prefix string, retention int, logger *zap.Logger) *Crawler {
	return &Crawler{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		retention: retention,
		logger:    logger,
	}
}

// Prefix returns the snapshot prefix.
func (c *Crawler) Prefix() string {
	return c.prefix
}

// snapshots lists the JSON snapshots, newest first.
func (c *Crawler) snapshots(ctx context.Context) ([]minio.ObjectInfo, error) {
	objs, err := storage.ListAll(ctx, c.client, c.bucket, c.prefix, true)
	if err != nil {
		return nil, err
	}

	objs = slices.DeleteFunc(objs, func(o minio.ObjectInfo) bool {
		return !strings.EqualFold(path.Ext(o.Key), ".json")
	})
	slices.SortFunc(objs, func(a, b minio.ObjectInfo) int {
		if c := b.LastModified.Compare(a.LastModified); c != 0 {
			return c
		}
		return strings.Compare(b.Key, a.Key)
	})
	return objs, nil
}

// Latest loads the newest snapshot.
func (c *Crawler) Latest(ctx context.Context) (*Snapshot, error) {
	objs, err := c.snapshots(ctx)
	if err != nil {
		return nil, reconcile.TransportError(c.prefix, err)
	}
	if len(objs) == 0 {
		return nil, reconcile.TransportError(c.prefix, ErrNoSnapshot)
	}
	newest := objs[0]

	obj, err := c.client.GetObject(ctx, c.bucket, newest.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, reconcile.TransportError(newest.Key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, reconcile.TransportError(newest.Key, err)
	}

	records, err := decodeSnapshot(data)
	if err != nil {
		return nil, reconcile.DecodeError(newest.Key, err)
	}

	return &Snapshot{Key: newest.Key, LastModified: newest.LastModified, Records: records}, nil
}

// Prune removes all but the newest retention snapshots and returns the removed keys.
func (c *Crawler) Prune(ctx context.Context) ([]string, error) {
	if c.retention <= 0 {
		return nil, nil
	}

	objs, err := c.snapshots(ctx)
	if err != nil {
		return nil, err
	}
	if len(objs) <= c.retention {
		return nil, nil
	}

	var removed []string
	for _, o := range objs[c.retention:] {
		if err := c.client.RemoveObject(ctx, c.bucket, o.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("failed to remove snapshot %s: %w", o.Key, err)
		}
		removed = append(removed, o.Key)
	}
	c.logger.Info("Pruned crawl snapshots", zap.Int("removed", len(removed)), zap.Int("kept", c.retention))
	return removed, nil
}

// decodeSnapshot accepts a bare array or {"events": [...]}.
func decodeSnapshot(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty snapshot")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var list []Record
		if err := dec.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var wrapped struct {
		Events []Record `json:"events"`
	}
	if err := dec.Decode(&wrapped); err != nil {
		return nil, err
	}
	if wrapped.Events == nil {
		return nil, fmt.Errorf("snapshot has no events array")
	}
	return wrapped.Events, nil
}
