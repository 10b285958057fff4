// Package storage saves uploaded product images on a local directory or an
// S3-compatible bucket (AWS S3, MinIO, R2), selected by STORAGE_DISK.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/shashiranjanraj/nepkart/config"
)

// ErrNotExist is returned by Get for a missing object.
var ErrNotExist = errors.New("storage: object does not exist")

// Disk is implemented by every storage driver.
type Disk interface {
	Put(ctx context.Context, name string, r io.Reader, contentType string) error
	Get(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) bool
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// New builds the disk named by STORAGE_DISK ("local" or "s3").
func New(ctx context.Context) (Disk, error) {
	switch d := strings.ToLower(config.StorageDefault()); d {
	case "local", "":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown STORAGE_DISK %q", d)
	}
}

// Clean turns a caller-supplied name into a relative slash path with no
// parent references.
func Clean(name string) (string, error) {
	p := strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
	if p == "" || p == "." {
		return "", fmt.Errorf("storage: invalid object name %q", name)
	}
	return p, nil
}
