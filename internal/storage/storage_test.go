package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/config"
)

func TestKeyFor(t *testing.T) {
	tests := map[string]string{
		"/blogs/a.pdf":          "blogs/a.pdf",
		"blogs/a.pdf":           "blogs/a.pdf",
		"/blogs/../../etc/pass": "etc/pass",
		"//blogs//a.pdf":        "blogs/a.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, KeyFor(in), in)
	}
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	info, err := s.Put(ctx, "/blogs/essay.pdf", strings.NewReader("%PDF-1.7"), PutObjectOptions{Size: 8, ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "blogs/essay.pdf", info.Key)
	assert.Equal(t, int64(8), info.Size)
	assert.FileExists(t, filepath.Join(dir, "blogs", "essay.pdf"))

	rc, got, err := s.Get(ctx, "blogs/essay.pdf")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Equal(t, "application/pdf", got.ContentType)

	_, err = s.Stat(ctx, "/blogs/missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = s.Get(ctx, "/blogs")
	assert.ErrorIs(t, err, ErrNotFound, "directories are not objects")

	_, err = s.PresignGet(ctx, "blogs/essay.pdf", 0)
	assert.ErrorIs(t, err, ErrPresignUnsupported)
}

func TestLocalStorage_StaysInRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("x"), 0o644))

	s, err := NewLocal(root)
	require.NoError(t, err)

	_, err = s.Stat(context.Background(), "../secret.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewLocal_RequiresDir(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"endpoint", config.MinIOConfig{}, "minio endpoint is required"},
		{"credentials", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a"}, "minio credentials are required"},
		{"bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinIO(context.Background(), tt.cfg)
			assert.EqualError(t, err, tt.want)
		})
	}
}
