package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ruteri/interface-registry/interfaces"
)

// FileBackend implements an interface store using the local file system.
// Each interface ID is a file named after its hex encoding holding a single flag byte.
type FileBackend struct {
	baseDir     string
	dataDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a new file storage backend using the specified base directory.
// It creates the interfaces subdirectory if it doesn't exist.
func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	dataDir := filepath.Join(baseDir, "interfaces")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create interfaces directory: %w", err)
	}

	return &FileBackend{
		baseDir:     baseDir,
		dataDir:     dataDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Get reads the flag stored for id.
func (b *FileBackend) Get(ctx context.Context, id interfaces.InterfaceID) (bool, bool, error) {
	filePath := b.getFilePath(id)

	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read file: %w", err)
	}

	b.log.Debug("Read interface from file",
		slog.String("path", filePath),
		slog.String("interface_id", id.String()))

	return decodeFlag(data), true, nil
}

// Set writes the flag for id. The file is written to a temporary name first
// and renamed so readers never observe a partial write.
func (b *FileBackend) Set(ctx context.Context, id interfaces.InterfaceID, supported bool) error {
	filePath := b.getFilePath(id)

	tmp, err := os.CreateTemp(b.dataDir, ".tmp-"+id.Hex())
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(encodeFlag(supported)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	b.log.Debug("Stored interface in file",
		slog.String("path", filePath),
		slog.String("interface_id", id.String()))

	return nil
}

// Contains checks whether a file exists for id.
func (b *FileBackend) Contains(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	_, err := os.Stat(b.getFilePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// Available checks if the file backend is accessible by verifying the data directory exists.
func (b *FileBackend) Available(ctx context.Context) bool {
	_, err := os.Stat(b.dataDir)
	if err != nil {
		b.log.Debug("File backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *FileBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.baseDir))
}

// LocationURI returns the URI that identifies this storage backend.
func (b *FileBackend) LocationURI() string {
	return b.locationURI
}

func (b *FileBackend) getFilePath(id interfaces.InterfaceID) string {
	return filepath.Join(b.dataDir, id.Hex())
}
