// Package storage stores uploaded files on a local or S3-compatible disk.
//
//	disk, err := storage.Open(ctx, storage.ConfigFromEnv())
//	path := storage.Path("products", 7, "image.png")
//	err = disk.Put(ctx, path, file, "image/png")
//	url := disk.URL(path)
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/shopdesk/config"
)

// Disk is the driver contract.
type Disk interface {
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	// Get opens the object at path. Caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error
	// URL is the public address of path.
	URL(path string) string
}

// ErrNotFound is returned by Get for a missing object.
var ErrNotFound = errors.New("storage: object not found")

// Config selects and configures a driver.
type Config struct {
	Driver    string // "local" or "s3"
	LocalRoot string
	BaseURL   string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
}

func ConfigFromEnv() Config {
	return Config{
		Driver:     config.StorageDefault(),
		LocalRoot:  config.StorageLocalRoot(),
		BaseURL:    config.StorageURL(),
		S3Bucket:   config.StorageS3Bucket(),
		S3Region:   config.StorageS3Region(),
		S3Key:      config.StorageS3Key(),
		S3Secret:   config.StorageS3Secret(),
		S3Endpoint: config.StorageS3Endpoint(),
	}
}

// Open builds the configured disk.
func Open(ctx context.Context, cfg Config) (Disk, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocal(cfg.LocalRoot, cfg.BaseURL)
	case "s3":
		if cfg.BaseURL == "" {
			cfg.BaseURL = config.StorageS3URL()
		}
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q (supported: local, s3)", cfg.Driver)
	}
}

// Path builds a collision-free object key such as
// "products/7/5f0c...e1.png" from the original filename's extension.
func Path(kind string, ownerID uint, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d/%s%s", kind, ownerID, uuid.NewString(), ext)
}

// clean normalises a key to a slash-separated relative path. Any ".."
// segment is rejected outright rather than resolved.
func clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("storage: invalid path %q", p)
		}
	}
	c := strings.TrimPrefix(path.Clean("/"+p), "/")
	if c == "" || c == "." {
		return "", fmt.Errorf("storage: invalid path %q", p)
	}
	return c, nil
}
