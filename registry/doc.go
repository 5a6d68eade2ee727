// Package registry implements the add-only interface registry and an
// ERC-165 probe for deployed contracts.
//
// # Local Registry
//
// InterfaceRegistry keeps a mapping from 4-byte interface IDs to a supported
// flag in an injected interfaces.InterfaceStore. Construction registers the
// self-identifying interface "supports_interface([u8;4])" unless the store
// already holds it, so a registry reopened over persisted state keeps every
// earlier registration.
//
//	store := storage.NewMemoryBackend()
//	reg, err := registry.New(ctx, store, logger)
//	if err != nil {
//	    return err
//	}
//
//	id := interfaces.ComputeInterfaceIDString("sample_function()")
//	if err := reg.Register(ctx, id); errors.Is(err, interfaces.ErrAlreadyRegistered) {
//	    // nothing changed
//	}
//
//	supported, err := reg.SupportsInterface(ctx, id)
//
// Registration never removes or overwrites an entry. Errors other than
// interfaces.ErrAlreadyRegistered come from the store.
//
// # On-chain Probe
//
// OnchainInterfaceClient calls supportsInterface(bytes4) on a deployed
// contract through any bind.ContractCaller, usually an *ethclient.Client.
// DetectInterface additionally runs the standard detection sequence, checking
// that the contract claims 0x01ffc9a7 and denies 0xffffffff before trusting
// its answer for the requested ID.
//
//	client, _ := ethclient.Dial(rpcURL)
//	probe := registry.NewOnchainInterfaceClient(client, contractAddress)
//	supported, err := probe.DetectInterface(ctx, id)
package registry
