package interfaces

import (
	"context"
	"errors"
	"fmt"
)

// ErrAlreadyRegistered is returned when registering an interface ID that is
// already present in a registry.
var ErrAlreadyRegistered = errors.New("interface already registered")

// AlreadyRegisteredError carries the interface ID whose registration was rejected.
// It matches ErrAlreadyRegistered under errors.Is.
type AlreadyRegisteredError struct {
	ID InterfaceID
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyRegistered.Error(), e.ID)
}

func (e *AlreadyRegisteredError) Is(target error) bool {
	return target == ErrAlreadyRegistered
}

// InterfaceChecker answers whether a component supports an interface.
type InterfaceChecker interface {
	SupportsInterface(ctx context.Context, id InterfaceID) (bool, error)
}

// InterfaceRegistry is an InterfaceChecker that also accepts registrations.
type InterfaceRegistry interface {
	InterfaceChecker

	// Register marks id as supported. It fails with ErrAlreadyRegistered
	// when id is already present; entries are never overwritten or removed.
	Register(ctx context.Context, id InterfaceID) error
}

// InterfaceCheckerFactory creates checkers for contracts deployed on chain.
type InterfaceCheckerFactory interface {
	CheckerFor(address ContractAddress) (InterfaceChecker, error)
}
