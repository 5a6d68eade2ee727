package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ruteri/interface-registry/interfaces"
)

// InterfaceRegistry records which interfaces a component supports.
// Entries are only ever added; a registered ID stays registered for the
// lifetime of the backing store.
//
// An InterfaceRegistry is not safe for concurrent use. Its host serializes calls.
type InterfaceRegistry struct {
	store interfaces.InterfaceStore
	log   *slog.Logger
}

// New creates a registry backed by store and registers the self-identifying
// interface. A store that already holds that entry is left unchanged.
func New(ctx context.Context, store interfaces.InterfaceStore, log *slog.Logger) (*InterfaceRegistry, error) {
	if log == nil {
		log = slog.Default()
	}

	r := &InterfaceRegistry{
		store: store,
		log:   log.With(slog.String("store", store.Name())),
	}

	found, err := store.Contains(ctx, interfaces.SupportsInterfaceID)
	if err != nil {
		return nil, fmt.Errorf("could not check self interface: %w", err)
	}
	if found {
		r.log.Debug("Reusing persisted registry state")
		return r, nil
	}

	if err := store.Set(ctx, interfaces.SupportsInterfaceID, true); err != nil {
		return nil, fmt.Errorf("could not register self interface: %w", err)
	}

	r.log.Info("Registered self interface",
		slog.String("interface_id", interfaces.SupportsInterfaceID.String()))
	return r, nil
}

// Register marks id as supported.
// It returns an *interfaces.AlreadyRegisteredError if id is already present.
func (r *InterfaceRegistry) Register(ctx context.Context, id interfaces.InterfaceID) error {
	found, err := r.store.Contains(ctx, id)
	if err != nil {
		return fmt.Errorf("could not check interface %s: %w", id, err)
	}
	if found {
		r.log.Debug("Rejected duplicate registration", slog.String("interface_id", id.String()))
		return &interfaces.AlreadyRegisteredError{ID: id}
	}

	if err := r.store.Set(ctx, id, true); err != nil {
		return fmt.Errorf("could not store interface %s: %w", id, err)
	}

	r.log.Info("Registered interface", slog.String("interface_id", id.String()))
	return nil
}

// RegisterSignature derives the ID of signature and registers it.
// The derived ID is returned even when registration fails.
func (r *InterfaceRegistry) RegisterSignature(ctx context.Context, signature string) (interfaces.InterfaceID, error) {
	id := interfaces.ComputeInterfaceIDString(signature)
	return id, r.Register(ctx, id)
}

// SupportsInterface reports whether id has been registered.
// A non-nil error means the store could not be read.
func (r *InterfaceRegistry) SupportsInterface(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	supported, found, err := r.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("could not read interface %s: %w", id, err)
	}
	return found && supported, nil
}

// SupportsSignature derives the ID of signature and queries it.
func (r *InterfaceRegistry) SupportsSignature(ctx context.Context, signature string) (bool, error) {
	return r.SupportsInterface(ctx, interfaces.ComputeInterfaceIDString(signature))
}
