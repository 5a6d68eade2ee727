package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/interface-registry/interfaces"
)

const supportsInterfaceABI = `[{"inputs":[{"internalType":"bytes4","name":"interfaceId","type":"bytes4"}],"name":"supportsInterface","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"}]`

var (
	// ERC165InterfaceID is the selector of supportsInterface(bytes4), 0x01ffc9a7.
	ERC165InterfaceID = interfaces.ComputeInterfaceIDString("supportsInterface(bytes4)")

	// InvalidInterfaceID must never be reported as supported by a conforming contract.
	InvalidInterfaceID = interfaces.InterfaceID{0xff, 0xff, 0xff, 0xff}

	// ErrNoContractCode is returned when the probed address holds no code.
	ErrNoContractCode = errors.New("no contract code at address")

	supportsInterfaceMethod = mustParseABI(supportsInterfaceABI)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

// OnchainInterfaceClient queries a deployed contract's supportsInterface(bytes4).
type OnchainInterfaceClient struct {
	caller  bind.ContractCaller
	address common.Address
}

// NewOnchainInterfaceClient creates a client for the contract at address.
func NewOnchainInterfaceClient(caller bind.ContractCaller, address common.Address) *OnchainInterfaceClient {
	return &OnchainInterfaceClient{
		caller:  caller,
		address: address,
	}
}

// Address returns the probed contract address.
func (c *OnchainInterfaceClient) Address() common.Address {
	return c.address
}

// SupportsInterface calls supportsInterface(id) on the contract.
// Call and decoding failures are returned as errors.
func (c *OnchainInterfaceClient) SupportsInterface(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	input, err := supportsInterfaceMethod.Pack("supportsInterface", [4]byte(id))
	if err != nil {
		return false, fmt.Errorf("could not pack supportsInterface call: %w", err)
	}

	output, err := c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: input,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("supportsInterface call failed: %w", err)
	}

	values, err := supportsInterfaceMethod.Unpack("supportsInterface", output)
	if err != nil {
		return false, fmt.Errorf("could not decode supportsInterface result: %w", err)
	}
	if len(values) != 1 {
		return false, fmt.Errorf("unexpected supportsInterface result length %d", len(values))
	}

	supported, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected supportsInterface result type %T", values[0])
	}
	return supported, nil
}

// DetectInterface follows the ERC-165 detection procedure: the contract must
// have code, claim ERC165InterfaceID, deny InvalidInterfaceID and claim id.
// Reverting or malformed calls read as unsupported. Only a failure to fetch
// the contract code is returned as an error.
func (c *OnchainInterfaceClient) DetectInterface(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	code, err := c.caller.CodeAt(ctx, c.address, nil)
	if err != nil {
		return false, fmt.Errorf("could not fetch contract code: %w", err)
	}
	if len(code) == 0 {
		return false, nil
	}

	if supported, err := c.SupportsInterface(ctx, ERC165InterfaceID); err != nil || !supported {
		return false, nil
	}
	if supported, err := c.SupportsInterface(ctx, InvalidInterfaceID); err != nil || supported {
		return false, nil
	}
	if id == InvalidInterfaceID {
		return false, nil
	}

	supported, err := c.SupportsInterface(ctx, id)
	if err != nil {
		return false, nil
	}
	return supported, nil
}

// CheckCode returns ErrNoContractCode when nothing is deployed at the address.
func (c *OnchainInterfaceClient) CheckCode(ctx context.Context) error {
	code, err := c.caller.CodeAt(ctx, c.address, nil)
	if err != nil {
		return fmt.Errorf("could not fetch contract code: %w", err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s", ErrNoContractCode, c.address.Hex())
	}
	return nil
}

// InterfaceCheckerFactory creates on-chain interface clients for different contract addresses.
type InterfaceCheckerFactory struct {
	caller bind.ContractCaller
}

// NewInterfaceCheckerFactory creates a new factory backed by caller, usually an *ethclient.Client.
func NewInterfaceCheckerFactory(caller bind.ContractCaller) *InterfaceCheckerFactory {
	return &InterfaceCheckerFactory{caller: caller}
}

// CheckerFor returns an InterfaceChecker for the specified contract address.
func (f *InterfaceCheckerFactory) CheckerFor(address interfaces.ContractAddress) (interfaces.InterfaceChecker, error) {
	if f.caller == nil {
		return nil, errors.New("contract caller not configured")
	}
	return NewOnchainInterfaceClient(f.caller, common.Address(address)), nil
}
