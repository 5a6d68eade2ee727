package storage

import (
	"context"
	"sync"

	"github.com/ruteri/interface-registry/interfaces"
)

const (
	flagSupported   byte = 0x01
	flagUnsupported byte = 0x00
)

func encodeFlag(supported bool) []byte {
	if supported {
		return []byte{flagSupported}
	}
	return []byte{flagUnsupported}
}

func decodeFlag(data []byte) bool {
	return len(data) > 0 && data[0] == flagSupported
}

// MemoryBackend keeps interface flags in process memory.
// State lives as long as the backend value.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[interfaces.InterfaceID]bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[interfaces.InterfaceID]bool),
	}
}

func (b *MemoryBackend) Get(ctx context.Context, id interfaces.InterfaceID) (bool, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	supported, found := b.entries[id]
	return supported, found, nil
}

func (b *MemoryBackend) Set(ctx context.Context, id interfaces.InterfaceID, supported bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[id] = supported
	return nil
}

func (b *MemoryBackend) Contains(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, found := b.entries[id]
	return found, nil
}

func (b *MemoryBackend) Available(ctx context.Context) bool {
	return true
}

func (b *MemoryBackend) Name() string {
	return "memory"
}

func (b *MemoryBackend) LocationURI() string {
	return "memory://"
}

// Len returns the number of stored entries.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
