// Command obsidianctl runs and assembles obsidian slot-verification
// and swap commitments from the command line.
//
// Usage:
//
//	obsidianctl run --input fixture.json
//	obsidianctl fetch --rpc-url https://eth.llamarpc.com \
//	    --address 0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc \
//	    --slot 0x0000000000000000000000000000000000000000000000000000000000000008 \
//	    --block latest
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/raul0ligma/obsidian"
	"github.com/raul0ligma/obsidian/chainproof"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "obsidianctl",
		Usage: "verify AMM reserves against a historical block and commit a swap",
		Commands: []*cli.Command{
			runCommand(),
			fetchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the full verify+swap pipeline over a JSON fixture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Required: true, Usage: "path to an ObsidianInput JSON fixture"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("input"))
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			var input obsidian.ObsidianInput
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("parse input: %w", err)
			}

			packed, err := obsidian.Run(input)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			fmt.Println("0x" + hex.EncodeToString(packed))
			return nil
		},
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "fetch a proof fixture skeleton over JSON-RPC",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rpc-url", Required: true},
			&cli.StringFlag{Name: "address", Required: true},
			&cli.StringFlag{Name: "slot", Required: true},
			&cli.StringFlag{Name: "block", Value: "latest"},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			client, err := chainproof.DialContext(ctx, c.String("rpc-url"))
			if err != nil {
				return fmt.Errorf("dial: %w", err)
			}
			defer client.Close()

			address := common.HexToAddress(c.String("address"))
			slot := common.HexToHash(c.String("slot"))

			inputs, err := client.FetchVerifierInputs(ctx, address, slot, c.String("block"))
			if err != nil {
				return fmt.Errorf("fetch verifier inputs: %w", err)
			}

			skeleton := obsidian.ObsidianInput{VerifierInputs: inputs}
			data, err := json.MarshalIndent(skeleton, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal fixture: %w", err)
			}

			fmt.Println(string(data))
			return nil
		},
	}
}
