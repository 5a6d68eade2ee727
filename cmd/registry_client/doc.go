// Package main (cmd/registry_client) is a command-line client for the
// interface registry.
//
// Commands:
//
//	derive <signature>          print the ID of a signature, --remote asks the server
//	register <id|--signature>   register an ID with the server
//	supports <id|--signature>   query the server
//	probe <id|--signature>      query a deployed contract via ERC-165
//
// IDs are 8 hex characters, optionally 0x-prefixed. Registering an ID that is
// already present fails with "interface already registered".
//
// Examples:
//
//	registry-client derive "supportsInterface(bytes4)"
//	registry-client --server-addr http://127.0.0.1:8080 register --signature "sample_function()"
//	registry-client supports 0x01ffc9a7
//	registry-client probe --rpc-addr http://127.0.0.1:8545 --contract 5FbDB2315678afecb367f032d93F642f64180aa3 0x80ac58cd
//
// probe runs the full detection sequence by default. With --raw it calls
// supportsInterface once and reports call failures as errors.
package main
