package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"markethub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 serves HeadObject and ListObjectsV2 for a path-style bucket.
func fakeS3(t *testing.T, bucket string, keys ...string) *httptest.Server {
	t.Helper()
	objects := map[string]bool{}
	for _, k := range keys {
		objects[k] = true
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest, ok := strings.CutPrefix(r.URL.Path, "/"+bucket)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		key := strings.TrimPrefix(rest, "/")

		switch {
		case r.Method == http.MethodHead:
			if objects[key] {
				w.Header().Set("Content-Length", "1")
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
			prefix := r.URL.Query().Get("prefix")
			var b strings.Builder
			b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
			b.WriteString(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
			fmt.Fprintf(&b, "<Name>%s</Name><Prefix>%s</Prefix><IsTruncated>false</IsTruncated>", bucket, prefix)
			for _, k := range keys {
				rest, ok := strings.CutPrefix(k, prefix)
				if !ok || strings.Contains(rest, "/") {
					continue
				}
				fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>1</Size></Contents>", k)
			}
			b.WriteString(`</ListBucketResult>`)
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(b.String()))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func newTestS3Store(t *testing.T, endpoint string) *S3FileStore {
	t.Helper()
	store, err := NewS3FileStore(context.Background(), config.StorageConfig{
		Driver:      "s3",
		S3Endpoint:  endpoint,
		S3Region:    "us-east-1",
		S3Bucket:    "catalog",
		S3AccessKey: "test-key",
		S3SecretKey: "test-secret",
		S3PathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return store
}

func TestNewS3FileStore_Validation(t *testing.T) {
	_, err := NewS3FileStore(context.Background(), config.StorageConfig{S3AccessKey: "k", S3SecretKey: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")

	_, err = NewS3FileStore(context.Background(), config.StorageConfig{S3Bucket: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials are required")
}

func TestS3FileStore_Exists(t *testing.T) {
	srv := fakeS3(t, "catalog", "assets/images/x.jpg")
	defer srv.Close()
	store := newTestS3Store(t, srv.URL)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "/assets/images/x.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "uploads/products/x.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3FileStore_List(t *testing.T) {
	srv := fakeS3(t, "catalog", "assets/images/b.png", "assets/images/a.jpg", "assets/images/nested/c.jpg", "uploads/d.jpg")
	defer srv.Close()
	store := newTestS3Store(t, srv.URL)

	files, err := store.List(context.Background(), "assets/images")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/images/a.jpg", "assets/images/b.png"}, files)
}

func TestNew_SelectsDriver(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Driver: "local", Root: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalFileStore{}, store)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"}, nil)
	assert.Error(t, err)
}
