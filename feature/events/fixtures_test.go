package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"shelter-sync/core/database"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type memObject struct {
	data     []byte
	modified time.Time
}

// memBucket is a storage.Client holding objects in memory.
type memBucket struct {
	mu      sync.Mutex
	objects map[string]memObject
	removed []string
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string]memObject{}}
}

func (b *memBucket) putSnapshot(t *testing.T, key string, at time.Time, events ...Record) {
	t.Helper()
	data, err := json.Marshal(events)
	require.NoError(t, err)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = memObject{data: data, modified: at}
}

func (b *memBucket) BucketExists(context.Context, string) (bool, error) { return true, nil }

func (b *memBucket) MakeBucket(context.Context, string, minio.MakeBucketOptions) error { return nil }

func (b *memBucket) PutObject(_ context.Context, _, name string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = memObject{data: data, modified: time.Now()}
	return minio.UploadInfo{Key: name, Size: int64(len(data))}, nil
}

func (b *memBucket) GetObject(_ context.Context, _, name string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.objects[name]
	if !ok {
		return nil, fmt.Errorf("no such key %s", name)
	}
	return io.NopCloser(bytes.NewReader(o.data)), nil
}

func (b *memBucket) ListObjects(_ context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	var keys []string
	for k := range b.objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		o := b.objects[k]
		ch <- minio.ObjectInfo{Key: k, Size: int64(len(o.data)), LastModified: o.modified}
	}
	close(ch)
	return ch
}

func (b *memBucket) RemoveObject(_ context.Context, _, name string, _ minio.RemoveObjectOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, name)
	b.removed = append(b.removed, name)
	return nil
}

func (b *memBucket) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for k := range b.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := NewStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func fair(title, url, location string) Record {
	return Record{
		"source":     "PET&MORE",
		"eventTitle": title,
		"eventUrl":   url,
		"location":   location,
		"eventDate":  "2025.05.01 ~ 2025.05.03",
		"eventMoney": "무료",
	}
}

func ptr(s string) *string { return &s }
