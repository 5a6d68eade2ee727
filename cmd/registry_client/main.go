package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ruteri/interface-registry/api/interfacehandler"
	"github.com/ruteri/interface-registry/cmd/flags"
	"github.com/ruteri/interface-registry/interfaces"
	"github.com/ruteri/interface-registry/registry"
	"github.com/urfave/cli/v2"
)

var flagRemote = &cli.BoolFlag{
	Name:  "remote",
	Usage: "derive on the registry server instead of locally",
}

var flagRaw = &cli.BoolFlag{
	Name:  "raw",
	Usage: "call supportsInterface directly, skipping the ERC-165 detection checks",
}

func main() {
	app := &cli.App{
		Name:  "registry-client",
		Usage: "Derive, register and query interface IDs",
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
		},
		Commands: []*cli.Command{
			{
				Name:      "derive",
				Usage:     "print the interface ID of a signature",
				ArgsUsage: "<signature>",
				Flags:     []cli.Flag{flagRemote},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return errors.New("expected exactly one signature argument")
					}
					signature := cCtx.Args().First()

					id := interfaces.ComputeInterfaceIDString(signature)
					if cCtx.Bool(flagRemote.Name) {
						var err error
						id, err = client(cCtx).Derive(cCtx.Context, signature)
						if err != nil {
							return err
						}
					}
					return printJSON(map[string]string{"signature": signature, "interface_id": id.String()})
				},
			},
			{
				Name:      "register",
				Usage:     "register an interface ID with the server",
				ArgsUsage: "<interface_id>",
				Flags:     []cli.Flag{flags.SignatureFlag},
				Action: func(cCtx *cli.Context) error {
					c := client(cCtx)
					if signature := cCtx.String(flags.SignatureFlag.Name); signature != "" {
						id, err := c.RegisterSignature(cCtx.Context, signature)
						if err != nil {
							return fmt.Errorf("registration of %s failed: %w", id, err)
						}
						return printJSON(map[string]string{"interface_id": id.String(), "status": "registered"})
					}

					id, err := interfaceIDArg(cCtx)
					if err != nil {
						return err
					}
					if err := c.Register(cCtx.Context, id); err != nil {
						return fmt.Errorf("registration of %s failed: %w", id, err)
					}
					return printJSON(map[string]string{"interface_id": id.String(), "status": "registered"})
				},
			},
			{
				Name:      "supports",
				Usage:     "query whether the server supports an interface ID",
				ArgsUsage: "<interface_id>",
				Flags:     []cli.Flag{flags.SignatureFlag},
				Action: func(cCtx *cli.Context) error {
					id, err := interfaceIDArg(cCtx)
					if err != nil {
						return err
					}
					supported, err := client(cCtx).SupportsInterface(cCtx.Context, id)
					if err != nil {
						return err
					}
					return printJSON(map[string]any{"interface_id": id.String(), "supported": supported})
				},
			},
			{
				Name:      "probe",
				Usage:     "query a deployed contract through ERC-165",
				ArgsUsage: "<interface_id>",
				Flags: []cli.Flag{
					flags.RpcAddrFlag,
					flags.ContractFlag,
					flags.SignatureFlag,
					flagRaw,
				},
				Action: probe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func probe(cCtx *cli.Context) error {
	id, err := interfaceIDArg(cCtx)
	if err != nil {
		return err
	}

	contract, err := interfaces.NewContractAddressFromHex(cCtx.String(flags.ContractFlag.Name))
	if err != nil {
		return fmt.Errorf("could not parse contract address: %w", err)
	}

	ethClient, err := ethclient.Dial(cCtx.String(flags.RpcAddrFlag.Name))
	if err != nil {
		return fmt.Errorf("could not dial RPC: %w", err)
	}
	defer ethClient.Close()

	var supported bool
	if cCtx.Bool(flagRaw.Name) {
		checker, err := registry.NewInterfaceCheckerFactory(ethClient).CheckerFor(contract)
		if err != nil {
			return err
		}
		supported, err = checker.SupportsInterface(cCtx.Context, id)
		if err != nil {
			return err
		}
	} else {
		onchain := registry.NewOnchainInterfaceClient(ethClient, [20]byte(contract))
		supported, err = onchain.DetectInterface(cCtx.Context, id)
		if err != nil {
			return err
		}
	}

	return printJSON(map[string]any{
		"contract":     contract.String(),
		"interface_id": id.String(),
		"supported":    supported,
	})
}

func client(cCtx *cli.Context) *interfacehandler.Client {
	return interfacehandler.NewClient(cCtx.String(flags.ServerAddrFlag.Name))
}

// interfaceIDArg reads the ID from --signature or from the first argument.
func interfaceIDArg(cCtx *cli.Context) (interfaces.InterfaceID, error) {
	if signature := cCtx.String(flags.SignatureFlag.Name); signature != "" {
		return interfaces.ComputeInterfaceIDString(signature), nil
	}
	if cCtx.NArg() != 1 {
		return interfaces.InterfaceID{}, errors.New("expected an interface ID argument or --signature")
	}
	return interfaces.NewInterfaceIDFromHex(cCtx.Args().First())
}

func printJSON(v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
