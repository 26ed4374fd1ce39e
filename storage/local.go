package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader stores objects on disk. It backs photo uploads when no R2 bucket is configured.
type LocalUploader struct {
	root          string
	publicBaseURL string
}

func NewLocalUploader(root, publicBaseURL string) (*LocalUploader, error) {
	if root == "" {
		return nil, errors.New("local uploader root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &LocalUploader{root: root, publicBaseURL: publicBaseURL}, nil
}

func (u *LocalUploader) Root() string {
	return u.root
}

func (u *LocalUploader) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(u.root, filepath.FromSlash(clean)), nil
}

func (u *LocalUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*UploadResult, error) {
	path, err := u.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create object %s: %w", key, err)
	}
	defer f.Close()

	hash := md5.New()
	if _, err := io.Copy(io.MultiWriter(f, hash), reader); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write object %s: %w", key, err)
	}

	return &UploadResult{
		Key:      key,
		Location: u.GetPublicURL(key),
		ETag:     hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func (u *LocalUploader) Delete(_ context.Context, key string) error {
	path, err := u.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (u *LocalUploader) GetPublicURL(key string) string {
	return publicURL(u.publicBaseURL, key)
}
