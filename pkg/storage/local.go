package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk stores objects under a directory on the local filesystem.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocal roots a disk at root; baseURL prefixes public URLs.
func NewLocal(root, baseURL string) (*LocalDisk, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve %s: %w", root, err)
	}
	return &LocalDisk{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the absolute directory objects are written to.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(name string) (string, error) {
	p, err := Clean(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(p)), nil
}

func (d *LocalDisk) Put(_ context.Context, name string, r io.Reader, _ string) error {
	full, err := d.abs(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("storage/local: write %s: %w", name, err)
	}
	return f.Close()
}

func (d *LocalDisk) Get(_ context.Context, name string) ([]byte, error) {
	full, err := d.abs(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", name, err)
	}
	return data, nil
}

func (d *LocalDisk) Exists(_ context.Context, name string) bool {
	full, err := d.abs(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (d *LocalDisk) Delete(_ context.Context, name string) error {
	full, err := d.abs(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", name, err)
	}
	return nil
}

func (d *LocalDisk) URL(name string) string {
	p, _ := Clean(name)
	return d.baseURL + "/" + p
}
