package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/ruteri/interface-registry/interfaces"
)

// IPFSBackend implements an interface store in the mutable file system (MFS)
// of an IPFS node. Each interface ID is a file under the root directory.
type IPFSBackend struct {
	shell       *shell.Shell
	host        string
	port        string
	root        string
	log         *slog.Logger
	locationURI string
}

// NewIPFSBackend creates a new IPFS storage backend connected to the API at host:port.
func NewIPFSBackend(host, port, root string, timeout time.Duration, log *slog.Logger) (*IPFSBackend, error) {
	apiURL := fmt.Sprintf("%s:%s", host, port)
	if root == "" {
		root = "/interfaces"
	}
	root = "/" + strings.Trim(root, "/")

	sh := shell.NewShell(apiURL)
	if timeout > 0 {
		sh.SetTimeout(timeout)
	}

	return &IPFSBackend{
		shell:       sh,
		host:        host,
		port:        port,
		root:        root,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s/?root=%s&timeout=%s", apiURL, root, timeout),
	}, nil
}

// Get reads the MFS file for id.
func (b *IPFSBackend) Get(ctx context.Context, id interfaces.InterfaceID) (bool, bool, error) {
	start := time.Now()
	filePath := b.getMFSPath(id)

	reader, err := b.shell.FilesRead(ctx, filePath)
	if err != nil {
		if isMFSNotFound(err) {
			return false, false, nil
		}
		b.log.Error("Failed to read interface from IPFS",
			slog.String("path", filePath),
			slog.String("interface_id", id.String()),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return false, false, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return false, false, fmt.Errorf("failed to read data from IPFS: %w", err)
	}

	b.log.Debug("Read interface from IPFS",
		slog.String("path", filePath),
		slog.String("interface_id", id.String()),
		slog.Duration("duration", time.Since(start)))

	return decodeFlag(data), true, nil
}

// Set writes the MFS file for id, creating parent directories.
func (b *IPFSBackend) Set(ctx context.Context, id interfaces.InterfaceID, supported bool) error {
	filePath := b.getMFSPath(id)

	err := b.shell.FilesWrite(ctx, filePath, bytes.NewReader(encodeFlag(supported)),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true))
	if err != nil {
		return fmt.Errorf("failed to write interface to IPFS: %w", err)
	}

	b.log.Debug("Stored interface in IPFS",
		slog.String("path", filePath),
		slog.String("interface_id", id.String()))
	return nil
}

// Contains stats the MFS file for id.
func (b *IPFSBackend) Contains(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	_, err := b.shell.FilesStat(ctx, b.getMFSPath(id))
	if err != nil {
		if isMFSNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	return true, nil
}

// Available checks if the IPFS node is accessible.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this storage backend.
func (b *IPFSBackend) Name() string {
	return fmt.Sprintf("ipfs-%s-%s", b.host, b.port)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *IPFSBackend) LocationURI() string {
	return b.locationURI
}

func (b *IPFSBackend) getMFSPath(id interfaces.InterfaceID) string {
	return path.Join(b.root, id.Hex())
}

func isMFSNotFound(err error) bool {
	return strings.Contains(err.Error(), "does not exist")
}
