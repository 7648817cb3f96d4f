package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/erc7824/eip712structs/internal/archive"
	"github.com/erc7824/eip712structs/internal/config"
	"github.com/erc7824/eip712structs/pkg/log"
	"github.com/erc7824/eip712structs/pkg/sign"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func runSign(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := newFlagSet("sign")
	file := fs.String("file", "", "typed data file (.json, .yaml)")
	noArchive := fs.Bool("no-archive", false, "do not record the signature")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger := log.FromContext(ctx)

	privateKey, err := readPrivateKey(cfg)
	if err != nil {
		return err
	}
	signer, err := sign.NewEthereumSigner(privateKey)
	if err != nil {
		return err
	}

	msg, err := loadMessage(ctx, *file)
	if err != nil {
		return err
	}
	sig, digest, err := sign.SignTypedData(signer, msg.primary, msg.domain)
	if err != nil {
		return err
	}
	logger.Info("typed data signed", "primaryType", msg.wire.PrimaryType, "signer", signer.Address().Hex(), "digest", digest.Hex())

	fmt.Fprintf(out, "signer:    %s\n", signer.Address().Hex())
	fmt.Fprintf(out, "digest:    %s\n", digest.Hex())
	fmt.Fprintf(out, "signature: %s\n", sig)

	if *noArchive {
		return nil
	}

	payload, err := json.Marshal(msg.wire)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	db, err := archive.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	record := &archive.Record{
		PrimaryType: msg.wire.PrimaryType,
		Digest:      digest.Hex(),
		Signer:      signer.Address().Hex(),
		Signature:   sig.String(),
		Payload:     payload,
	}
	if err := archive.NewGormStore(db).Store(ctx, record); err != nil {
		return err
	}
	logger.Debug("signature archived", "id", record.ID)
	fmt.Fprintf(out, "record:    %s\n", record.ID)
	return nil
}

// readPrivateKey falls back to an echo-free prompt on an interactive stdin.
func readPrivateKey(cfg *config.Config) (string, error) {
	if cfg.PrivateKey != "" {
		return cfg.PrivateKey, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("EIP712_PRIVATE_KEY is required to sign")
	}
	fmt.Fprint(os.Stderr, "private key: ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}
	return strings.TrimSpace(string(key)), nil
}

func runVerify(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("verify")
	file := fs.String("file", "", "typed data file (.json, .yaml)")
	sigHex := fs.String("sig", "", "0x prefixed 65 byte signature")
	expect := fs.String("expect", "", "fail unless this address signed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sig, err := sign.ParseSignature(*sigHex)
	if err != nil {
		return err
	}
	msg, err := loadMessage(ctx, *file)
	if err != nil {
		return err
	}
	signer, err := sign.RecoverTypedDataSigner(msg.primary, msg.domain, sig)
	if err != nil {
		return err
	}

	if *expect != "" {
		if !common.IsHexAddress(*expect) {
			return fmt.Errorf("invalid -expect address %q", *expect)
		}
		if common.HexToAddress(*expect) != signer {
			return fmt.Errorf("signature was made by %s, not %s", signer.Hex(), *expect)
		}
	}

	log.FromContext(ctx).Info("signature verified", "primaryType", msg.wire.PrimaryType, "signer", signer.Hex())
	fmt.Fprintf(out, "signer: %s\n", signer.Hex())
	return nil
}

func runHistory(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := newFlagSet("history")
	primaryType := fs.String("type", "", "only show this primary type")
	signer := fs.String("signer", "", "only show this signer")
	limit := fs.Uint("limit", archive.DefaultLimit, "maximum number of records")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := archive.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	store := archive.NewGormStore(db)

	records, err := store.List(ctx, &archive.ListOptions{
		PrimaryType: *primaryType,
		Signer:      *signer,
		Limit:       uint32(*limit),
	})
	if err != nil {
		return err
	}
	total, err := store.Count(ctx, *primaryType)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Type", "Signer", "Digest", "Created"})
	t.AppendSeparator()
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.PrimaryType, r.Signer, r.Digest, r.CreatedAt.UTC().Format(time.RFC3339)})
	}
	t.AppendFooter(table.Row{"", "", "", "total", total})
	t.Render()

	log.FromContext(ctx).Debug("history listed", "shown", len(records), "total", total)
	return nil
}
