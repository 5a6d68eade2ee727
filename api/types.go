package api

import (
	"context"
	"errors"

	"github.com/ruteri/interface-registry/interfaces"
)

// InterfaceRegistryProvider is the remote view of an interface registry
// served over HTTP.
type InterfaceRegistryProvider interface {
	interfaces.InterfaceRegistry

	// RegisterSignature derives the ID of signature on the server and registers it.
	RegisterSignature(ctx context.Context, signature string) (interfaces.InterfaceID, error)

	// Derive computes the ID of signature on the server without registering it.
	Derive(ctx context.Context, signature string) (interfaces.InterfaceID, error)
}

// SignatureRequest carries a human-readable signature such as "transfer(address,uint256)".
type SignatureRequest struct {
	Signature string `json:"signature"`
}

// SupportsInterfaceResponse answers a support query.
type SupportsInterfaceResponse struct {
	InterfaceID interfaces.InterfaceID `json:"interface_id"`
	Supported   bool                   `json:"supported"`
}

// InterfaceResponse is returned by registration and derivation endpoints.
// Signature is set when the ID was derived on the server.
type InterfaceResponse struct {
	InterfaceID interfaces.InterfaceID `json:"interface_id"`
	Signature   *string                `json:"signature,omitempty"`
}

// ErrInvalidRequest is returned when a request body cannot be decoded.
var ErrInvalidRequest = errors.New("invalid request")

// Error codes carried by ErrorResponse. Both invalid input kinds share
// status 400, so clients tell them apart by code.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidInterfaceID = "invalid_interface_id"
	ErrorCodeAlreadyRegistered  = "already_registered"
	ErrorCodeBackendUnavailable = "backend_unavailable"
	ErrorCodeInternal           = "internal"
)

// ErrorResponse is the JSON body of every non-2xx registry response.
type ErrorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code,omitempty"`
	InterfaceID string `json:"interface_id,omitempty"`
}
