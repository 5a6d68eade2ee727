package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// InterfaceIDLength is the fixed width of an interface fingerprint in bytes.
const InterfaceIDLength = 4

// SupportsInterfaceSignature is the signature of the capability to answer
// interface-support queries. Every registry supports it from construction.
const SupportsInterfaceSignature = "supports_interface([u8;4])"

// SupportsInterfaceID is the fingerprint of SupportsInterfaceSignature.
var SupportsInterfaceID = ComputeInterfaceIDString(SupportsInterfaceSignature)

// InterfaceID is a 4-byte fingerprint identifying an interface.
// It is compared byte-for-byte and never interpreted as a number.
type InterfaceID [InterfaceIDLength]byte

// ErrInvalidInterfaceID is returned when an interface ID cannot be parsed.
var ErrInvalidInterfaceID = errors.New("invalid interface ID")

// NewInterfaceIDFromBytes creates an interface ID from exactly 4 bytes.
func NewInterfaceIDFromBytes(source []byte) (InterfaceID, error) {
	if len(source) != InterfaceIDLength {
		return InterfaceID{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidInterfaceID, InterfaceIDLength, len(source))
	}

	var id InterfaceID
	copy(id[:], source)
	return id, nil
}

// NewInterfaceIDFromHex parses an 8-character hex string, with or without 0x prefix.
func NewInterfaceIDFromHex(source string) (InterfaceID, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(source, "0x"), "0X")
	if len(clean) != 2*InterfaceIDLength {
		return InterfaceID{}, fmt.Errorf("%w: hex string must be %d characters", ErrInvalidInterfaceID, 2*InterfaceIDLength)
	}

	idBytes, err := hex.DecodeString(clean)
	if err != nil {
		return InterfaceID{}, fmt.Errorf("%w: %v", ErrInvalidInterfaceID, err)
	}

	return NewInterfaceIDFromBytes(idBytes)
}

// ComputeInterfaceID derives the fingerprint of a signature: the first four
// bytes of its Keccak-256 digest, in digest order.
func ComputeInterfaceID(signature []byte) InterfaceID {
	var id InterfaceID
	copy(id[:], crypto.Keccak256(signature)[:InterfaceIDLength])
	return id
}

// ComputeInterfaceIDString derives the fingerprint of a string signature.
func ComputeInterfaceIDString(signature string) InterfaceID {
	return ComputeInterfaceID([]byte(signature))
}

// CombineInterfaceIDs XORs function selectors into the identifier of the
// interface made up of those functions. No arguments yield the zero ID.
func CombineInterfaceIDs(ids ...InterfaceID) InterfaceID {
	var combined InterfaceID
	for _, id := range ids {
		for i := range combined {
			combined[i] ^= id[i]
		}
	}
	return combined
}

// String returns the 0x-prefixed hex representation.
func (id InterfaceID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// Hex returns the hex representation without prefix, as used in storage keys.
func (id InterfaceID) Hex() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 4 bytes.
func (id InterfaceID) Bytes() []byte {
	return id[:]
}

// Equal compares two interface IDs.
func (id InterfaceID) Equal(other InterfaceID) bool {
	return id == other
}

// MarshalText implements encoding.TextMarshaler.
func (id InterfaceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *InterfaceID) UnmarshalText(text []byte) error {
	parsed, err := NewInterfaceIDFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ContractAddress represents an Ethereum contract address.
type ContractAddress [20]byte

// NewContractAddressFromHex parses a 40-character hex address, with or without 0x prefix.
func NewContractAddressFromHex(addr string) (ContractAddress, error) {
	clean := strings.TrimPrefix(addr, "0x")
	if len(clean) != 40 {
		return ContractAddress{}, errors.New("invalid address length: hex string must be 40 characters")
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ContractAddress{}, fmt.Errorf("invalid hex format: %w", err)
	}

	var res ContractAddress
	copy(res[:], addrBytes)
	return res, nil
}

// String returns the hex string representation of the contract address.
func (addr ContractAddress) String() string {
	return hex.EncodeToString(addr[:])
}
