package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/giuliocaccin/excel-csv-merger/internal/storage"
	"github.com/giuliocaccin/excel-csv-merger/internal/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistingBucket", func(t *testing.T) {
		file := writeFile(t, "Reach.csv", `"fileName"`+"\n")
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "merged").Return(true, nil).Once()
		client.On("PutObject", mock.Anything, "merged", "runs/Reach.csv", mock.Anything, int64(11),
			mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType == "text/csv" }),
		).Return(minio.UploadInfo{}, nil)

		p := storage.NewPublisher(client, storage.Config{Bucket: "merged", Prefix: "/runs/"}, nil)
		got, err := p.Publish(ctx, file)
		require.NoError(t, err)
		assert.Equal(t, "merged/runs/Reach.csv", got)

		// The bucket is only checked once.
		_, err = p.Publish(ctx, file)
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "BucketExists", 1)
		client.AssertNumberOfCalls(t, "PutObject", 2)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CreatesMissingBucket", func(t *testing.T) {
		file := writeFile(t, "Reach.xlsx", "x")
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "merged").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "merged", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)
		client.On("PutObject", mock.Anything, "merged", "Reach.xlsx", mock.Anything, int64(1), mock.Anything).Return(minio.UploadInfo{}, nil)

		p := storage.NewPublisher(client, storage.Config{Bucket: "merged", Region: "eu-west-1"}, nil)
		got, err := p.Publish(ctx, file)
		require.NoError(t, err)
		assert.Equal(t, "merged/Reach.xlsx", got)
		client.AssertExpectations(t)
	})

	t.Run("BucketCheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "merged").Return(false, errors.New("connection refused"))

		p := storage.NewPublisher(client, storage.Config{Bucket: "merged"}, nil)
		_, err := p.Publish(ctx, "does-not-matter.csv")
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("UploadFails", func(t *testing.T) {
		file := writeFile(t, "Reach.csv", "x")
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "merged").Return(true, nil)
		client.On("PutObject", mock.Anything, "merged", "Reach.csv", mock.Anything, int64(1), mock.Anything).
			Return(minio.UploadInfo{}, errors.New("access denied"))

		p := storage.NewPublisher(client, storage.Config{Bucket: "merged"}, nil)
		_, err := p.Publish(ctx, file)
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("MissingFile", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "merged").Return(true, nil)

		p := storage.NewPublisher(client, storage.Config{Bucket: "merged"}, nil)
		_, err := p.Publish(ctx, filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
