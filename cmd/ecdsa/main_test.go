package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

// run executes the app with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err := app.Run(context.Background(), append([]string{"ecdsa"}, args...))
	return out.String(), err
}

// field returns the value printed after "name: " in output.
func field(t *testing.T, output, name string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), name+": "); ok {
			return v
		}
	}
	t.Fatalf("no %q in output:\n%s", name, output)
	return ""
}

func TestAppStructure(t *testing.T) {
	app := newApp()
	require.Equal(t, "ecdsa", app.Name)

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, name := range []string{"keygen", "sign", "verify", "demo", "audit"} {
		require.True(t, names[name], "missing command %s", name)
	}
}

func TestKeygenSignVerify(t *testing.T) {
	out, err := run(t, "keygen")
	require.NoError(t, err)

	key := field(t, out, "private key")
	pubX := field(t, out, "public key x")
	pubY := field(t, out, "public key y")
	require.Len(t, key, 64)

	out, err = run(t, "sign", "--key", key, "--message", "cli message")
	require.NoError(t, err)
	r := field(t, out, "r")
	s := field(t, out, "s")

	out, err = run(t, "verify", "--pub-x", pubX, "--pub-y", pubY,
		"--message", "cli message", "--r", r, "--s", s)
	require.NoError(t, err)
	require.Contains(t, out, "signature is valid")

	_, err = run(t, "verify", "--pub-x", pubX, "--pub-y", pubY,
		"--message", "other message", "--r", r, "--s", s)
	require.ErrorIs(t, err, errInvalidSignature)
}

func TestSignRejectsBadKey(t *testing.T) {
	_, err := run(t, "sign", "--key", "0", "--message", "m")
	require.ErrorIs(t, err, ecdsa.ErrInvalidPrivateKey)

	_, err = run(t, "sign", "--key", "not-hex", "--message", "m")
	require.ErrorContains(t, err, "--key: invalid hex value")

	_, err = run(t, "sign", "--message", "m")
	require.Error(t, err)
}

func TestVerifyRejectsBadPublicKey(t *testing.T) {
	_, err := run(t, "verify", "--pub-x", "0x1", "--pub-y", "0x1",
		"--message", "m", "--r", "1", "--s", "1")
	require.ErrorIs(t, err, ecdsa.ErrInvalidPublicKey)
}

func TestDemo(t *testing.T) {
	out, err := run(t, "demo")
	require.NoError(t, err)
	require.Contains(t, out, "message: "+demoMessage)
	require.Contains(t, out, "signature is valid")
}

func TestLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "debug", "demo")
	require.NoError(t, err)

	_, err = run(t, "--log-level", "loud", "demo")
	require.ErrorContains(t, err, "unknown log level")
}

func TestAudit(t *testing.T) {
	priv, err := ecdsa.NewPrivateKey(big.NewInt(0x5eed))
	require.NoError(t, err)

	nonce := big.NewInt(77).FillBytes(make([]byte, 32))
	var entries []string
	for _, msg := range []string{"first", "second"} {
		sig, err := ecdsa.Sign(bytes.NewReader(nonce), priv, []byte(msg))
		require.NoError(t, err)
		entries = append(entries, fmt.Sprintf(
			`{"message": %q, "r": "0x%x", "s": "0x%x"}`, msg, sig.R, sig.S))
	}

	path := filepath.Join(t.TempDir(), "sigs.json")
	content := "[" + strings.Join(entries, ",") + "]"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := run(t, "audit", "--signatures", path,
		"--pub-x", fmt.Sprintf("%x", priv.X()),
		"--pub-y", fmt.Sprintf("%x", priv.Y()))
	require.NoError(t, err)
	require.Contains(t, out, "scanned 2 signatures")
	require.Contains(t, out, "same_nonce")
	require.Contains(t, out, fmt.Sprintf("private key: %064x", priv.D()))
	require.Contains(t, out, "matches public key")

	_, err = run(t, "audit", "--signatures", path, "--format", "xml")
	require.ErrorContains(t, err, "unknown format")

	_, err = run(t, "audit", "--signatures", filepath.Join(t.TempDir(), "none.json"))
	require.ErrorContains(t, err, "failed to load signatures")
}

func TestAuditCSVClean(t *testing.T) {
	priv, err := ecdsa.NewPrivateKey(big.NewInt(1234))
	require.NoError(t, err)

	var sb strings.Builder
	sb.WriteString("message,r,s\n")
	for _, msg := range []string{"a", "b", "c"} {
		sig, err := ecdsa.Sign(rand.Reader, priv, []byte(msg))
		require.NoError(t, err)
		fmt.Fprintf(&sb, "%s,0x%x,0x%x\n", msg, sig.R, sig.S)
	}

	path := filepath.Join(t.TempDir(), "sigs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))

	out, err := run(t, "audit", "--signatures", path, "--format", "csv", "--workers", "2")
	require.NoError(t, err)
	require.Contains(t, out, "no related nonces found")
}

func TestParseHex(t *testing.T) {
	v, err := parseHex("x", "0xFF")
	require.NoError(t, err)
	require.Equal(t, int64(255), v.Int64())

	v, err = parseHex("x", "ff")
	require.NoError(t, err)
	require.Equal(t, int64(255), v.Int64())

	_, err = parseHex("x", "")
	require.Error(t, err)
	_, err = parseHex("x", "-1")
	require.Error(t, err)
}
