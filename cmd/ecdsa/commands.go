package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/nonceaudit"
)

// demoMessage is the message signed by the demo command.
const demoMessage = "Hello, ECDSA!"

var errInvalidSignature = errors.New("signature is not valid")

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:   "keygen",
		Usage:  "Generate a new key pair",
		Action: runKeygenCommand,
	}
}

func runKeygenCommand(ctx context.Context, cmd *cli.Command) error {
	priv, err := ecdsa.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	out := output(cmd)
	fmt.Fprintf(out, "private key: %064x\n", priv.D())
	printPublicKey(out, priv.Public())
	return nil
}

func signCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Sign a message",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Usage:    "Private key in hex",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "message",
				Usage:    "Message to sign",
				Required: true,
			},
		},
		Action: runSignCommand,
	}
}

func runSignCommand(ctx context.Context, cmd *cli.Command) error {
	d, err := parseHex("key", cmd.String("key"))
	if err != nil {
		return err
	}
	priv, err := ecdsa.NewPrivateKey(d)
	if err != nil {
		return err
	}

	sig, err := ecdsa.Sign(rand.Reader, priv, []byte(cmd.String("message")))
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	printSignature(output(cmd), sig)
	return nil
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Verify a signature",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pub-x", Usage: "Public key x coordinate in hex", Required: true},
			&cli.StringFlag{Name: "pub-y", Usage: "Public key y coordinate in hex", Required: true},
			&cli.StringFlag{Name: "message", Usage: "Signed message", Required: true},
			&cli.StringFlag{Name: "r", Usage: "Signature r in hex", Required: true},
			&cli.StringFlag{Name: "s", Usage: "Signature s in hex", Required: true},
		},
		Action: runVerifyCommand,
	}
}

func runVerifyCommand(ctx context.Context, cmd *cli.Command) error {
	pub, err := parsePublicKey(cmd)
	if err != nil {
		return err
	}
	r, err := parseHex("r", cmd.String("r"))
	if err != nil {
		return err
	}
	s, err := parseHex("s", cmd.String("s"))
	if err != nil {
		return err
	}

	if !ecdsa.Verify(pub, []byte(cmd.String("message")), r, s) {
		return errInvalidSignature
	}
	fmt.Fprintln(output(cmd), "signature is valid")
	return nil
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:   "demo",
		Usage:  "Generate a key, sign a message and verify it",
		Action: runDemoCommand,
	}
}

func runDemoCommand(ctx context.Context, cmd *cli.Command) error {
	out := output(cmd)

	priv, err := ecdsa.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	printPublicKey(out, priv.Public())

	sig, err := ecdsa.Sign(rand.Reader, priv, []byte(demoMessage))
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	fmt.Fprintf(out, "message: %s\n", demoMessage)
	printSignature(out, sig)

	if !sig.Verify(priv.Public(), []byte(demoMessage)) {
		return errInvalidSignature
	}
	fmt.Fprintln(out, "signature is valid")
	return nil
}

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Scan a signature set for related nonces",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "signatures",
				Usage:    "Path to signatures file (JSON or CSV)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Signature file format (json or csv)",
				Value: "json",
			},
			&cli.StringFlag{Name: "pub-x", Usage: "Public key x coordinate in hex"},
			&cli.StringFlag{Name: "pub-y", Usage: "Public key y coordinate in hex"},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel workers (0 = auto-detect)",
			},
			&cli.IntFlag{
				Name:  "max-pairs",
				Usage: "Maximum record pairs to test (0 = all)",
			},
		},
		Action: runAuditCommand,
	}
}

func runAuditCommand(ctx context.Context, cmd *cli.Command) error {
	var parser nonceaudit.SignatureParser
	switch format := strings.ToLower(cmd.String("format")); format {
	case "json":
		parser = &nonceaudit.JSONParser{}
	case "csv":
		parser = &nonceaudit.CSVParser{}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	var pub *ecdsa.PublicKey
	if cmd.String("pub-x") != "" || cmd.String("pub-y") != "" {
		var err error
		if pub, err = parsePublicKey(cmd); err != nil {
			return err
		}
	}

	records, err := parser.ParseSignatures(cmd.String("signatures"))
	if err != nil {
		return fmt.Errorf("failed to load signatures: %w", err)
	}

	auditor := nonceaudit.NewAuditor()
	auditor.NumWorkers = int(cmd.Int("workers"))
	auditor.MaxPairs = int(cmd.Int("max-pairs"))

	findings, err := auditor.Scan(ctx, records, pub)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	out := output(cmd)
	fmt.Fprintf(out, "scanned %d signatures\n", len(records))
	if len(findings) == 0 {
		fmt.Fprintln(out, "no related nonces found")
		return nil
	}
	for _, f := range findings {
		fmt.Fprintf(out, "\n[+] records %d and %d: %s (%v)\n",
			f.RecordPair[0], f.RecordPair[1], f.Pattern, f.Relationship)
		fmt.Fprintf(out, "    private key: %064x\n", f.PrivateKey)
		if f.MatchesKey {
			fmt.Fprintln(out, "    matches public key")
		}
	}
	return nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func printPublicKey(w io.Writer, pub *ecdsa.PublicKey) {
	fmt.Fprintf(w, "public key x: %064x\n", pub.X())
	fmt.Fprintf(w, "public key y: %064x\n", pub.Y())
}

func printSignature(w io.Writer, sig *ecdsa.Signature) {
	fmt.Fprintf(w, "r: %064x\n", sig.R)
	fmt.Fprintf(w, "s: %064x\n", sig.S)
}

func parsePublicKey(cmd *cli.Command) (*ecdsa.PublicKey, error) {
	x, err := parseHex("pub-x", cmd.String("pub-x"))
	if err != nil {
		return nil, err
	}
	y, err := parseHex("pub-y", cmd.String("pub-y"))
	if err != nil {
		return nil, err
	}
	return ecdsa.NewPublicKey(x, y)
}

// parseHex parses a hex value with an optional 0x prefix.
func parseHex(name, s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, ok := new(big.Int).SetString(s, 16)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("--%s: invalid hex value", name)
	}
	return v, nil
}
