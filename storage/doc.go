// Package storage provides the persistence substrates of the interface registry.
//
// Every backend implements interfaces.InterfaceStore, a key-value mapping from
// a 4-byte interface ID to a supported flag:
//
//   - MemoryBackend for tests and ephemeral registries
//   - FileBackend storing one file per interface ID
//   - BoltBackend storing entries in a single BoltDB bucket
//   - S3Backend for S3-compatible object storage
//   - VaultBackend for HashiCorp Vault KV v2 secrets
//   - IPFSBackend for the mutable file system of an IPFS node
//
// # Storage URI Format
//
// Storage backends are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - memory://
//   - file:///var/lib/registry/
//   - bolt:///var/lib/registry/interfaces.db
//   - s3://[key:secret@]bucket-name/prefix/?region=us-west-2&endpoint=https://minio:9000&path_style=true
//   - vault://vault.example.com:8200/secret/registry?token=...
//   - ipfs://127.0.0.1:5001/?root=/interfaces&timeout=30s
//
// # Value Encoding
//
// Byte-oriented backends store a single byte per entry: 0x01 for supported,
// 0x00 otherwise. Vault stores a boolean "supported" field.
//
// # Multi-Backend Example
//
//	factory := storage.NewStorageBackendFactory(logger)
//	store, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{
//	    fileLocation,
//	    s3Location,
//	})
//
// Writes are sent to every available backend and succeed when at least one
// backend accepts them. Reads are answered by the first available backend.
package storage
