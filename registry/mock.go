package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/interface-registry/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockInterfaceStore mocks the InterfaceStore interface
type MockInterfaceStore struct {
	mock.Mock
}

// Get mocks the Get method
func (m *MockInterfaceStore) Get(ctx context.Context, id interfaces.InterfaceID) (bool, bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

// Set mocks the Set method
func (m *MockInterfaceStore) Set(ctx context.Context, id interfaces.InterfaceID, supported bool) error {
	args := m.Called(ctx, id, supported)
	return args.Error(0)
}

// Contains mocks the Contains method
func (m *MockInterfaceStore) Contains(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// Available mocks the Available method
func (m *MockInterfaceStore) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Name returns a fixed name so that it can be used in log attributes without expectations
func (m *MockInterfaceStore) Name() string {
	return "mock"
}

// LocationURI returns a fixed URI
func (m *MockInterfaceStore) LocationURI() string {
	return "mock:"
}

// MockInterfaceChecker mocks the InterfaceChecker interface
type MockInterfaceChecker struct {
	mock.Mock
}

// SupportsInterface mocks the SupportsInterface method
func (m *MockInterfaceChecker) SupportsInterface(ctx context.Context, id interfaces.InterfaceID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockContractCaller mocks bind.ContractCaller
type MockContractCaller struct {
	mock.Mock
}

// CodeAt mocks the CodeAt method
func (m *MockContractCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, contract, blockNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// CallContract mocks the CallContract method
func (m *MockContractCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, call, blockNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
