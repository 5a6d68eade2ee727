package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/ruteri/interface-registry/interfaces"
)

// VaultConfig holds the parameters of a Vault KV v2 backend.
type VaultConfig struct {
	// Address is the Vault server address (e.g. https://vault.example.com:8200)
	Address string
	// MountPath is the KV v2 mount (e.g. "secret")
	MountPath string
	// DataPath is the path within the mount (e.g. "registry")
	DataPath string
	// Token authenticates requests. Ignored when ClientCert is set.
	Token string
	// ClientCert enables TLS client certificate authentication.
	ClientCert *tls.Certificate
}

// VaultBackend implements an interface store using HashiCorp Vault KV v2.
// Each interface ID is a secret at {mount}/data/{path}/{id} holding a
// boolean "supported" field.
type VaultBackend struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultBackend creates a new Vault storage backend.
func NewVaultBackend(cfg VaultConfig, log *slog.Logger) (*VaultBackend, error) {
	config := api.DefaultConfig()
	config.Address = cfg.Address

	if cfg.ClientCert != nil {
		config.HttpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					Certificates: []tls.Certificate{*cfg.ClientCert},
				},
			},
			Timeout: 30 * time.Second,
		}
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mountPath := strings.Trim(cfg.MountPath, "/")
	dataPath := strings.Trim(cfg.DataPath, "/")

	return &VaultBackend{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", strings.TrimPrefix(strings.TrimPrefix(cfg.Address, "https://"), "http://"), mountPath, dataPath),
	}, nil
}

// Get reads the secret for id.
func (b *VaultBackend) Get(ctx context.Context, id interfaces.InterfaceID) (bool, bool, error) {
	path := b.secretPath(id)

	secret, err := b.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		b.log.Error("Failed to read from Vault",
			slog.String("path", path),
			slog.String("interface_id", id.String()),
			"err", err)
		return false, false, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		return false, false, nil
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		// KV v2 returns data=null for deleted versions
		return false, false, nil
	}

	supported, ok := data["supported"].(bool)
	if !ok {
		return false, false, fmt.Errorf("invalid data format in Vault response at %s", path)
	}

	return supported, true, nil
}

// Set writes the secret for id.
func (b *VaultBackend) Set(ctx context.Context, id interfaces.InterfaceID, supported bool) error {
	start := time.Now()
	path := b.secretPath(id)

	_, err := b.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"data": map[string]interface{}{
			"supported": supported,
		},
	})
	if err != nil {
		b.log.Error("Failed to write to Vault",
			slog.String("path", path),
			slog.String("interface_id", id.String()),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Debug("Stored interface in Vault",
		slog.String("interface_id", id.String()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Contains reports whether a live secret exists for id.
func (b *VaultBackend) Contains(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	_, found, err := b.Get(ctx, id)
	return found, err
}

// Available checks the Vault health endpoint.
func (b *VaultBackend) Available(ctx context.Context) bool {
	health, err := b.client.Sys().HealthWithContext(ctx)
	if err != nil {
		b.log.Debug("Vault backend unavailable", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}

// Name returns a unique identifier for this storage backend.
func (b *VaultBackend) Name() string {
	return fmt.Sprintf("vault-%s", b.mountPath)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *VaultBackend) LocationURI() string {
	return b.locationURI
}

func (b *VaultBackend) secretPath(id interfaces.InterfaceID) string {
	if b.dataPath == "" {
		return fmt.Sprintf("%s/data/%s", b.mountPath, id.Hex())
	}
	return fmt.Sprintf("%s/data/%s/%s", b.mountPath, b.dataPath, id.Hex())
}
