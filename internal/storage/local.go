package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"time"
)

// localStorage keeps objects as files under a root directory. It backs the
// site when no bucket is configured.
type localStorage struct {
	root string
}

// NewLocal returns a Storage rooted at dir.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("static directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve static directory: %w", err)
	}
	return &localStorage{root: abs}, nil
}

func (l *localStorage) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(KeyFor(key)))
}

// Put writes the object to disk, creating parent directories.
func (l *localStorage) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ObjectInfo{}, err
	}
	f, err := os.Create(p)
	if err != nil {
		return ObjectInfo{}, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ObjectInfo{}, err
	}
	info, err := l.Stat(context.Background(), key)
	if err != nil {
		return ObjectInfo{}, err
	}
	info.Size = n
	if opt.ContentType != "" {
		info.ContentType = opt.ContentType
	}
	info.Metadata = opt.Metadata
	return info, nil
}

// Get opens the file for streaming.
func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	info, err := l.Stat(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(l.path(key))
	if err != nil {
		return nil, ObjectInfo{}, mapFSError(err)
	}
	return f, info, nil
}

// Stat reports file size and modification time.
func (l *localStorage) Stat(_ context.Context, key string) (ObjectInfo, error) {
	st, err := os.Stat(l.path(key))
	if err != nil {
		return ObjectInfo{}, mapFSError(err)
	}
	if st.IsDir() {
		return ObjectInfo{}, ErrNotFound
	}
	return ObjectInfo{
		Key:          KeyFor(key),
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(st.Name())),
		LastModified: st.ModTime(),
	}, nil
}

// PresignGet is not available for files; callers stream with Get instead.
func (l *localStorage) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrPresignUnsupported
}

func mapFSError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
