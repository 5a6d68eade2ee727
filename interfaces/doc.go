// Package interfaces defines the core types and ports of the interface registry,
// separating interface definitions from their implementations.
//
// # Interface IDs
//
// An InterfaceID is a 4-byte fingerprint of a human-readable signature such as
// "supports_interface([u8;4])". ComputeInterfaceID derives it by hashing the
// signature with Keccak-256 and keeping the first four digest bytes:
//
//	id := interfaces.ComputeInterfaceIDString("sample_function()")
//
// Truncating to four bytes admits collisions with a probability of roughly one
// in four billion for unrelated signatures. Callers accept this.
//
// CombineInterfaceIDs XORs the selectors of several functions into the
// identifier of the interface made up of them.
//
// # Ports
//
//   - InterfaceStore: the key-value persistence substrate (Get, Set, Contains)
//   - StorageBackendFactory: creates stores from location URIs
//   - InterfaceRegistry: register and query supported interfaces
//   - InterfaceChecker: query-only view, also implemented by on-chain probes
//
// # Errors
//
//   - ErrAlreadyRegistered: the only domain error, returned by Register
//   - ErrInvalidInterfaceID: malformed hex or byte input
//   - ErrBackendUnavailable, ErrInvalidLocationURI: storage infrastructure errors
package interfaces
