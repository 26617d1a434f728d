package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps media on the local filesystem under a root directory
// that is served read-only under urlPrefix.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(filepath.Join(root, FolderVideos), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Root returns the directory served under URLPrefix.
func (s *LocalStore) Root() string { return s.root }

// URLPrefix returns the public path prefix.
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

// Put writes body to root/key and returns urlPrefix/key.
func (s *LocalStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	clean, dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return path.Join(s.urlPrefix, clean), nil
}

// Delete removes the file behind a path returned by Put.
func (s *LocalStore) Delete(_ context.Context, publicPath string) error {
	if !strings.HasPrefix(publicPath, s.urlPrefix+"/") {
		return ErrForeignPath
	}
	_, dst, err := s.resolve(strings.TrimPrefix(publicPath, s.urlPrefix+"/"))
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// resolve cleans key so it cannot escape root and returns it with its file path.
func (s *LocalStore) resolve(key string) (string, string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", "", fmt.Errorf("empty key")
	}
	return strings.TrimPrefix(clean, "/"), filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
