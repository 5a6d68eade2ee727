package storage

import (
	"crypto/tls"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ruteri/interface-registry/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, uri string) interfaces.StorageBackendLocation {
	t.Helper()
	loc, err := interfaces.NewStorageBackendLocation(uri)
	require.NoError(t, err)
	return loc
}

func TestStorageBackendFactory_StorageBackendFor(t *testing.T) {
	dir := t.TempDir()
	factory := NewStorageBackendFactory(testLogger())

	tests := []struct {
		name     string
		uri      string
		expected interface{}
	}{
		{"memory", "memory://", &MemoryBackend{}},
		{"file", "file://" + filepath.Join(dir, "files"), &FileBackend{}},
		{"bolt", "bolt://" + filepath.Join(dir, "db", "interfaces.db"), &BoltBackend{}},
		{"s3", "s3://key:secret@bucket/prefix?region=eu-west-1", &S3Backend{}},
		{"vault", "vault://127.0.0.1:8200/secret/registry?tls=false&token=t", &VaultBackend{}},
		{"ipfs", "ipfs://127.0.0.1:5001/?root=/registry&timeout=5s", &IPFSBackend{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := factory.StorageBackendFor(mustLocation(t, tt.uri))
			require.NoError(t, err)
			assert.IsType(t, tt.expected, backend)

			if closer, ok := backend.(*BoltBackend); ok {
				closer.Close()
			}
		})
	}
}

func TestStorageBackendFactory_InvalidLocations(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	_, err := factory.StorageBackendFor(interfaces.StorageBackendLocation{Scheme: "ftp", Raw: "ftp://x"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.StorageBackendFor(mustLocation(t, "vault://127.0.0.1:8200/"))
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.StorageBackendFor(mustLocation(t, "ipfs://127.0.0.1:5001/?timeout=soon"))
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.StorageBackendFor(mustLocation(t, "file://"))
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestStorageBackendFactory_VaultTLSAuth(t *testing.T) {
	certErr := errors.New("no certificate")
	factory := NewStorageBackendFactory(testLogger()).WithTLSAuth(func() (tls.Certificate, error) {
		return tls.Certificate{}, certErr
	})

	_, err := factory.StorageBackendFor(mustLocation(t, "vault://127.0.0.1:8200/secret"))
	assert.ErrorIs(t, err, certErr)
}

func TestStorageBackendFactory_CreateMultiBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	dir := t.TempDir()

	single, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{
		mustLocation(t, "memory://"),
	})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, single)

	multi, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{
		mustLocation(t, "memory://"),
		mustLocation(t, "file://"+dir),
		{Scheme: "ftp", Raw: "ftp://ignored"},
	})
	require.NoError(t, err)
	assert.IsType(t, &MultiStorageBackend{}, multi)
	assert.Equal(t, "multi:[memory://,file://"+dir+"]", multi.LocationURI())

	_, err = factory.CreateMultiBackend(nil)
	assert.Error(t, err)
}
