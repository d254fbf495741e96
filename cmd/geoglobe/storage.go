package main

import (
	"fmt"
	"strings"

	"geoglobe/internal/config"
	"geoglobe/internal/storage"
	filestorage "geoglobe/internal/storage/file"
	"geoglobe/internal/storage/memory"
	sqlitestorage "geoglobe/internal/storage/sqlite"
)

// newBackend creates the storage backend named by cfg.Type.
func newBackend(cfg config.StorageConfig) (storage.Backend, error) {
	switch strings.ToLower(cfg.Type) {
	case "memory":
		return memory.New(), nil
	case "file", "":
		return filestorage.New(filestorage.Config{Dir: cfg.DataDir}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{Path: cfg.SQLitePath}), nil
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, cfg.Type)
	}
}
