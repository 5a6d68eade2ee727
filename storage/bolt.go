package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruteri/interface-registry/interfaces"
	"go.etcd.io/bbolt"
)

const interfacesBucket = "interfaces"

// BoltBackend implements an interface store in a BoltDB file.
// Keys are the raw 4-byte interface IDs.
type BoltBackend struct {
	db          *bbolt.DB
	path        string
	log         *slog.Logger
	locationURI string
}

// NewBoltBackend opens (or creates) the database at path.
func NewBoltBackend(path string, log *slog.Logger) (*BoltBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(interfacesBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create interfaces bucket: %w", err)
	}

	return &BoltBackend{
		db:          db,
		path:        cleanPath,
		log:         log,
		locationURI: fmt.Sprintf("bolt://%s", cleanPath),
	}, nil
}

// Close closes the underlying BoltDB database.
func (b *BoltBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *BoltBackend) Get(ctx context.Context, id interfaces.InterfaceID) (bool, bool, error) {
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	var supported, found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(interfacesBucket))
		if bucket == nil {
			return fmt.Errorf("interfaces bucket is missing")
		}
		value := bucket.Get(id.Bytes())
		if value == nil {
			return nil
		}
		found = true
		supported = decodeFlag(value)
		return nil
	})
	if err != nil {
		return false, false, b.wrapError("get interface", err)
	}

	return supported, found, nil
}

func (b *BoltBackend) Set(ctx context.Context, id interfaces.InterfaceID, supported bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(interfacesBucket))
		if bucket == nil {
			return fmt.Errorf("interfaces bucket is missing")
		}
		return bucket.Put(id.Bytes(), encodeFlag(supported))
	})
	if err != nil {
		return b.wrapError("put interface", err)
	}

	b.log.Debug("Stored interface in bolt",
		slog.String("path", b.path),
		slog.String("interface_id", id.String()))
	return nil
}

func (b *BoltBackend) Contains(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	_, found, err := b.Get(ctx, id)
	return found, err
}

// Available reports whether the database is open.
func (b *BoltBackend) Available(ctx context.Context) bool {
	err := b.db.View(func(tx *bbolt.Tx) error { return nil })
	if err != nil {
		b.log.Debug("Bolt backend unavailable", "err", err)
		return false
	}
	return true
}

func (b *BoltBackend) Name() string {
	return fmt.Sprintf("bolt-%s", filepath.Base(b.path))
}

func (b *BoltBackend) LocationURI() string {
	return b.locationURI
}

func (b *BoltBackend) wrapError(op string, err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("%s: %w", op, interfaces.ErrBackendUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
