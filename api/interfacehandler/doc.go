// Package interfacehandler serves an interface registry over HTTP and
// provides a Go client for it.
//
// # Routes
//
//   - GET  /api/public/interfaces/{interface_id} returns {"interface_id","supported"}
//   - POST /api/public/derive with {"signature"} returns the derived ID
//   - POST /api/interfaces/{interface_id} registers an ID
//   - POST /api/interfaces/signatures with {"signature"} derives and registers
//
// Interface IDs are 8 hex characters with an optional 0x prefix.
//
// # Status Codes
//
//   - 201 Created: registration succeeded
//   - 400 Bad Request: malformed ID or request body
//   - 409 Conflict: the ID is already registered
//   - 503 Service Unavailable: the storage backend failed
//
// Error bodies are api.ErrorResponse. Client maps 409 back to
// *interfaces.AlreadyRegisteredError, so callers can use errors.Is with
// interfaces.ErrAlreadyRegistered against a remote registry as well.
//
//	client := interfacehandler.NewClient("http://127.0.0.1:8080")
//	err := client.Register(ctx, id)
//	if errors.Is(err, interfaces.ErrAlreadyRegistered) {
//	    // nothing changed
//	}
package interfacehandler
