package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shelter-sync/core/storage"
	"shelter-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{"Bare", "localhost:9000", false},
		{"HTTP", "http://localhost:9000", false},
		{"HTTPS", "https://s3.ap-northeast-2.amazonaws.com/", false},
		{"Empty", "  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(storage.Config{
				Endpoint:  tt.endpoint,
				AccessKey: "testkey",
				SecretKey: "testsecret",
				Region:    "ap-northeast-2",
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestConfigTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, storage.Config{}.Timeout())
	assert.Equal(t, 5*time.Second, storage.Config{TimeoutSeconds: 5}.Timeout())
}

func TestListAll(t *testing.T) {
	t.Run("Objects", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "crawl/a.json"}
		ch <- minio.ObjectInfo{Key: "crawl/b.json"}
		close(ch)
		client.On("ListObjects", mock.Anything, "bucket", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
			return o.Prefix == "crawl/" && o.Recursive
		})).Return((<-chan minio.ObjectInfo)(ch))

		objs, err := storage.ListAll(context.Background(), client, "bucket", "crawl/", true)
		assert.NoError(t, err)
		assert.Len(t, objs, 2)
	})

	t.Run("ListingError", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("access denied")}
		close(ch)
		client.On("ListObjects", mock.Anything, "bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		objs, err := storage.ListAll(context.Background(), client, "bucket", "crawl/", true)
		assert.ErrorContains(t, err, "access denied")
		assert.Nil(t, objs)
	})
}

func TestEnsureBucket(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(true, nil)

		created, err := storage.EnsureBucket(context.Background(), client, "b", "")
		assert.NoError(t, err)
		assert.False(t, created)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "b", minio.MakeBucketOptions{Region: "ap-northeast-2"}).Return(nil)

		created, err := storage.EnsureBucket(context.Background(), client, "b", "ap-northeast-2")
		assert.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, errors.New("timeout"))

		_, err := storage.EnsureBucket(context.Background(), client, "b", "")
		assert.ErrorContains(t, err, "timeout")
	})
}
