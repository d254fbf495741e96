// Package filestorage stores each key as a JSON array in <dir>/<key>.json.
package filestorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidKey is returned for keys that cannot be used as a file name.
var ErrInvalidKey = errors.New("invalid key")

// Config holds configuration for the file backend.
type Config struct {
	Dir string
}

// Backend writes one file per key. Writes go through a temp file and a rename.
type Backend struct {
	cfg Config
}

func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init creates the data directory.
func (b *Backend) Init() error {
	if b.cfg.Dir == "" {
		return errors.New("file storage: data dir not set")
	}
	if err := os.MkdirAll(b.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("file storage: %w", err)
	}
	return nil
}

func (b *Backend) Close() error { return nil }

func (b *Backend) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(b.cfg.Dir, key+".json"), nil
}

func (b *Backend) Load(ctx context.Context, key string) ([]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	p, err := b.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("file storage: read %s: %w", key, err)
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, false, fmt.Errorf("file storage: decode %s: %w", key, err)
	}
	return values, true, nil
}

func (b *Backend) Save(ctx context.Context, key string, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.cfg.Dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("file storage: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file storage: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file storage: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("file storage: write %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file storage: delete %s: %w", key, err)
	}
	return nil
}
