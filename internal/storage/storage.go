// Package storage persists admission documents and returns the URL they are
// served from.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DocumentStorage stores an uploaded document under key.
type DocumentStorage interface {
	Save(ctx context.Context, key, contentType string, body io.ReadSeeker) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// LocalStorage writes documents below a directory served at URLPrefix.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalStorage creates a LocalStorage rooted at dir.
func NewLocalStorage(dir, urlPrefix string) *LocalStorage {
	return &LocalStorage{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *LocalStorage) Save(ctx context.Context, key, _ string, body io.ReadSeeker) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	destPath := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.urlPrefix + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok {
		return fmt.Errorf("url %q is not served by local storage", url)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
