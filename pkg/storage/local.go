package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a root directory and serves them from BaseURL.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		root = "storage"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir root: %w", err)
	}
	return &Local{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *Local) abs(p string) (string, error) {
	c, err := clean(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(c)), nil
}

func (d *Local) Put(_ context.Context, p string, r io.Reader, _ string) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", p, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("storage/local: write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage/local: close %s: %w", p, err)
	}
	return os.Rename(tmp.Name(), full)
}

func (d *Local) Get(_ context.Context, p string) (io.ReadCloser, error) {
	full, err := d.abs(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", p, err)
	}
	return f, nil
}

func (d *Local) Exists(_ context.Context, p string) (bool, error) {
	full, err := d.abs(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (d *Local) Delete(_ context.Context, p string) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", p, err)
	}
	return nil
}

func (d *Local) URL(p string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(p), "/")
}

// FileServer serves the root directory, for mounting at /storage.
func (d *Local) FileServer(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(d.root)))
}
