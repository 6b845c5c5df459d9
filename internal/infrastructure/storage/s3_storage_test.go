package storage

import (
	"context"
	"testing"

	"github.com/masgolf/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket:         "blog-images",
			AccessKey:      "k",
			SecretKey:      "s",
			Endpoint:       "https://project.supabase.co/storage/v1/s3",
			ForcePathStyle: true,
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "blog-images", storage.GetBucket())
	})
}

func TestS3ObjectStorage_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		key  string
		want string
	}{
		{
			name: "explicit public base",
			cfg:  config.StorageConfig{PublicBaseURL: "https://cdn.masgolf.co.kr/blog-images/"},
			key:  "originals/2025/01/a.jpg",
			want: "https://cdn.masgolf.co.kr/blog-images/originals/2025/01/a.jpg",
		},
		{
			name: "endpoint path style",
			cfg:  config.StorageConfig{Endpoint: "minio.local:9000"},
			key:  "a b.png",
			want: "https://minio.local:9000/blog-images/a%20b.png",
		},
		{
			name: "aws virtual host",
			cfg:  config.StorageConfig{Region: "ap-northeast-2"},
			key:  "/x.webp",
			want: "https://blog-images.s3.ap-northeast-2.amazonaws.com/x.webp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Bucket, cfg.AccessKey, cfg.SecretKey = "blog-images", "k", "s"
			storage, err := NewS3ObjectStorage(&cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, storage.PublicURL(tt.key))
		})
	}
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	storage, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, storage.Upload(ctx, "", []byte("x"), "text/plain"), ErrKeyRequired)
	_, err = storage.Download(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
	assert.ErrorIs(t, storage.DeleteObject(ctx, ""), ErrKeyRequired)
	_, err = storage.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage("")

	require.NoError(t, s.Upload(ctx, "originals/a.jpg", []byte("jpeg"), "image/jpeg"))
	ok, err := s.ObjectExists(ctx, "originals/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", s.ContentType("originals/a.jpg"))

	data, err := s.Download(ctx, "originals/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)

	// callers cannot mutate stored bytes
	data[0] = 'X'
	again, _ := s.Download(ctx, "originals/a.jpg")
	assert.Equal(t, []byte("jpeg"), again)

	assert.Equal(t, "http://localhost:8080/uploads/originals/a.jpg", s.PublicURL("originals/a.jpg"))

	require.NoError(t, s.DeleteObject(ctx, "originals/a.jpg"))
	_, err = s.Download(ctx, "originals/a.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	require.NoError(t, s.DeleteObject(ctx, "missing"))

	assert.ErrorIs(t, s.Upload(ctx, "", nil, ""), ErrKeyRequired)
}
