// Command eip712 encodes, hashes, signs and verifies EIP-712 typed data
// files (JSON or YAML).
//
//	eip712 encode  -file mail.json
//	eip712 hash    -file mail.json
//	eip712 sign    -file mail.json
//	eip712 verify  -file mail.json -sig 0x...
//	eip712 history -type Mail -limit 20
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/erc7824/eip712structs/internal/config"
	"github.com/erc7824/eip712structs/pkg/log"
)

const usage = `usage: eip712 <command> [flags]

commands:
  encode   print the canonical type signature and type hash of every type
  hash     print the struct hashes and signing digests of a typed data file
  sign     sign a typed data file with EIP712_PRIVATE_KEY and archive it
  verify   recover the signer of a typed data signature
  history  list archived signatures
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.NewZapLogger(cfg.Log).WithName("eip712")
	if cfg.EnvFile != "" {
		logger.Debug("loaded env file", "path", cfg.EnvFile)
	}
	ctx := log.SetContextLogger(context.Background(), logger)

	if err := runCli(ctx, cfg, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		logger.Fatal("command failed", "command", os.Args[1], "error", err)
	}
}

func runCli(ctx context.Context, cfg *config.Config, name string, args []string, out io.Writer) error {
	ctx = log.SetContextLogger(ctx, log.FromContext(ctx).WithName(name))

	switch name {
	case "encode":
		return runEncode(ctx, args, out)
	case "hash":
		return runHash(ctx, args, out)
	case "sign":
		return runSign(ctx, cfg, args, out)
	case "verify":
		return runVerify(ctx, args, out)
	case "history":
		return runHistory(ctx, cfg, args, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}
