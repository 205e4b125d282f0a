package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes files into a directory on disk.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStorage) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if !plainName(key) {
		return "", errors.New("storage key must be a plain file name")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, key)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close %s: %w", target, err)
	}

	return path.Join(s.urlPrefix, key), nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || !plainName(key) {
		return fmt.Errorf("%s is not a local upload", url)
	}

	target := filepath.Join(s.dir, key)
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", target, err)
	}
	return nil
}

func plainName(key string) bool {
	return key != "" && key == filepath.Base(key) && key != "." && key != ".."
}
