package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/interface-registry/interfaces"
)

// MultiStorageBackend implements interfaces.InterfaceStore using multiple backends with fallback.
// Writes go to every available backend; reads look through the backends until one holds the ID.
type MultiStorageBackend struct {
	backends []interfaces.InterfaceStore
	log      *slog.Logger
}

// NewMultiStorageBackend creates a new multi-storage backend with fallback
func NewMultiStorageBackend(backends []interfaces.InterfaceStore, logger *slog.Logger) *MultiStorageBackend {
	if logger == nil {
		logger = slog.Default()
	}

	return &MultiStorageBackend{
		backends: backends,
		log:      logger,
	}
}

// Get asks every available backend until one holds the interface. A backend
// that missed a write answers "not found", so absence is only reported once
// every answering backend agrees.
func (m *MultiStorageBackend) Get(ctx context.Context, id interfaces.InterfaceID) (bool, bool, error) {
	start := time.Now()
	var answered int
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable",
				slog.String("backend_name", backend.Name()),
				slog.String("interface_id", id.String()))
			continue
		}

		supported, found, err := backend.Get(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Debug("Failed to read from backend",
				slog.String("backend_name", backend.Name()),
				slog.String("interface_id", id.String()),
				"err", err)
			continue
		}

		answered++
		if found {
			m.log.Debug("Read interface",
				slog.String("backend_name", backend.Name()),
				slog.String("interface_id", id.String()),
				slog.Duration("duration", time.Since(start)))
			return supported, true, nil
		}
	}

	if answered > 0 {
		return false, false, nil
	}

	m.log.Error("All backends failed to read interface",
		slog.String("interface_id", id.String()),
		slog.Int("failed_backends", len(errs)),
		slog.Duration("duration", time.Since(start)))

	return false, false, fmt.Errorf("%w: all backends failed to read %s: %w", interfaces.ErrBackendUnavailable, id, errors.Join(errs...))
}

// Set writes to all available backends. It succeeds when at least one write succeeds.
func (m *MultiStorageBackend) Set(ctx context.Context, id interfaces.InterfaceID, supported bool) error {
	start := time.Now()
	var success int
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable", slog.String("backend_name", backend.Name()))
			continue
		}

		if err := backend.Set(ctx, id, supported); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Warn("Failed to store to backend",
				slog.String("backend_name", backend.Name()),
				slog.String("interface_id", id.String()),
				"err", err)
			continue
		}
		success++
	}

	if success == 0 {
		m.log.Error("All backends failed to store interface",
			slog.Int("failed_backends", len(errs)),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("%w: all backends failed to store %s: %w", interfaces.ErrBackendUnavailable, id, errors.Join(errs...))
	}

	m.log.Info("Stored interface",
		slog.String("interface_id", id.String()),
		slog.Int("backends", success),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Contains reports whether any available backend holds the interface.
func (m *MultiStorageBackend) Contains(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	var answered int
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			continue
		}

		found, err := backend.Contains(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			continue
		}
		if found {
			return true, nil
		}
		answered++
	}

	if answered > 0 {
		return false, nil
	}
	return false, fmt.Errorf("%w: all backends failed to check %s: %w", interfaces.ErrBackendUnavailable, id, errors.Join(errs...))
}

// Available checks if any backend is available
func (m *MultiStorageBackend) Available(ctx context.Context) bool {
	for _, backend := range m.backends {
		if backend.Available(ctx) {
			return true
		}
	}
	return false
}

// Name returns the name of this backend
func (m *MultiStorageBackend) Name() string {
	return "multi-storage"
}

// LocationURI returns a combined location URI from all backends
func (m *MultiStorageBackend) LocationURI() string {
	var locations []string
	for _, backend := range m.backends {
		locations = append(locations, backend.LocationURI())
	}

	return "multi:[" + strings.Join(locations, ",") + "]"
}

// Close closes every backend that holds resources, such as BoltBackend.
func (m *MultiStorageBackend) Close() error {
	var errs []error
	for _, backend := range m.backends {
		if closer, ok := backend.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
