package storage

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruteri/interface-registry/interfaces"
)

// StorageBackendFactory creates interface stores from URI strings and manages
// multi-backend configurations for redundant storage.
type StorageBackendFactory struct {
	log     *slog.Logger
	tlsAuth func() (tls.Certificate, error)
}

// NewStorageBackendFactory creates a new factory instance that can create storage backends.
func NewStorageBackendFactory(logger *slog.Logger) *StorageBackendFactory {
	return &StorageBackendFactory{
		log: logger,
	}
}

// WithTLSAuth configures TLS client certificate authentication for Vault backends.
func (sf *StorageBackendFactory) WithTLSAuth(getCert func() (tls.Certificate, error)) *StorageBackendFactory {
	return &StorageBackendFactory{
		log:     sf.log,
		tlsAuth: getCert,
	}
}

// StorageBackendFor creates a storage backend from a location URI.
// The URI format should be [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - memory:// - Process memory, lost on exit
//   - file:// - Local filesystem storage
//   - bolt:// - BoltDB file
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2
//   - ipfs:// - IPFS mutable file system
func (sf *StorageBackendFactory) StorageBackendFor(location interfaces.StorageBackendLocation) (interfaces.InterfaceStore, error) {
	switch strings.ToLower(location.Scheme) {
	case "memory":
		return NewMemoryBackend(), nil
	case "file":
		return sf.createFileBackend(location)
	case "bolt":
		return sf.createBoltBackend(location)
	case "s3":
		return sf.createS3Backend(location)
	case "vault":
		return sf.createVaultBackend(location)
	case "ipfs":
		return sf.createIPFSBackend(location)
	default:
		return nil, fmt.Errorf("%w: unsupported backend scheme %q", interfaces.ErrInvalidLocationURI, location.Scheme)
	}
}

// CreateMultiBackend creates a multi-storage backend from a list of location URIs.
// A single location yields that backend directly.
// Returns an error if no valid backends could be created from the provided URIs.
func (sf *StorageBackendFactory) CreateMultiBackend(locations []interfaces.StorageBackendLocation) (interfaces.InterfaceStore, error) {
	backends := make([]interfaces.InterfaceStore, 0, len(locations))

	for _, location := range locations {
		backend, err := sf.StorageBackendFor(location)
		if err != nil {
			sf.log.Warn("Failed to create storage backend",
				"err", err,
				slog.String("locationURI", location.String()))
			continue
		}
		backends = append(backends, backend)
	}

	switch len(backends) {
	case 0:
		return nil, fmt.Errorf("no valid storage backends created")
	case 1:
		return backends[0], nil
	default:
		return NewMultiStorageBackend(backends, sf.log), nil
	}
}

// createFileBackend creates a file system storage backend.
// URI format: file:///absolute/path/ or file://./relative/path/
func (sf *StorageBackendFactory) createFileBackend(location interfaces.StorageBackendLocation) (interfaces.InterfaceStore, error) {
	sf.log.Debug("Creating file backend", slog.String("uri", location.String()))

	path, err := localPath(location)
	if err != nil {
		return nil, err
	}
	return NewFileBackend(path, sf.log)
}

// createBoltBackend opens a BoltDB file.
// URI format: bolt:///var/lib/registry/interfaces.db
func (sf *StorageBackendFactory) createBoltBackend(location interfaces.StorageBackendLocation) (interfaces.InterfaceStore, error) {
	sf.log.Debug("Creating bolt backend", slog.String("uri", location.String()))

	path, err := localPath(location)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return NewBoltBackend(path, sf.log)
}

// createS3Backend creates an S3 or S3-compatible storage backend.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/prefix/?region=us-west-2&endpoint=custom.s3.com&path_style=true
func (sf *StorageBackendFactory) createS3Backend(location interfaces.StorageBackendLocation) (interfaces.InterfaceStore, error) {
	sf.log.Debug("Creating S3 backend", slog.String("bucket", location.Host))

	cfg := S3Config{
		Bucket:    location.Host,
		Prefix:    strings.TrimPrefix(location.Path, "/"),
		Region:    location.GetParam("region"),
		Endpoint:  location.GetParam("endpoint"),
		PathStyle: location.GetParamBool("path_style"),
	}
	if location.Auth != nil {
		cfg.AccessKey = location.Auth.Username()
		cfg.SecretKey, _ = location.Auth.Password()
	}

	return NewS3Backend(cfg, sf.log)
}

// createVaultBackend creates a Vault KV v2 backend.
// URI format: vault://vault.example.com:8200/secret/registry?token=...&tls=false
// The first path segment is the mount, the rest is the data path.
func (sf *StorageBackendFactory) createVaultBackend(location interfaces.StorageBackendLocation) (interfaces.InterfaceStore, error) {
	sf.log.Debug("Creating Vault backend", slog.String("host", location.Host))

	parts := strings.SplitN(strings.Trim(location.Path, "/"), "/", 2)
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: vault URI must include a mount path", interfaces.ErrInvalidLocationURI)
	}

	scheme := "https"
	if location.GetParam("tls") == "false" {
		scheme = "http"
	}

	cfg := VaultConfig{
		Address:   fmt.Sprintf("%s://%s", scheme, location.Host),
		MountPath: parts[0],
		Token:     location.GetParam("token"),
	}
	if len(parts) == 2 {
		cfg.DataPath = parts[1]
	}

	if sf.tlsAuth != nil {
		cert, err := sf.tlsAuth()
		if err != nil {
			return nil, fmt.Errorf("failed to get TLS client certificate: %w", err)
		}
		cfg.ClientCert = &cert
	}

	return NewVaultBackend(cfg, sf.log)
}

// createIPFSBackend creates an IPFS MFS storage backend.
// URI format: ipfs://host:port/?root=/interfaces&timeout=30s
func (sf *StorageBackendFactory) createIPFSBackend(location interfaces.StorageBackendLocation) (interfaces.InterfaceStore, error) {
	sf.log.Debug("Creating IPFS backend", slog.String("uri", location.String()))

	host, port, found := strings.Cut(location.Host, ":")
	if !found || port == "" {
		port = "5001"
	}

	timeout := 30 * time.Second
	if raw := location.GetParam("timeout"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timeout %q", interfaces.ErrInvalidLocationURI, raw)
		}
		timeout = parsed
	}

	return NewIPFSBackend(host, port, location.GetParam("root"), timeout, sf.log)
}

func localPath(location interfaces.StorageBackendLocation) (string, error) {
	path := location.Path
	if location.Host != "" {
		path = location.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty path in %s", interfaces.ErrInvalidLocationURI, location.String())
	}
	return path, nil
}
