package nonceaudit

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestJSONParserRoundTrip(t *testing.T) {
	priv := testKey(t)
	rec1 := signWithNonce(t, priv, "hello", big.NewInt(2024))
	rec2 := signWithNonce(t, priv, "world", big.NewInt(2025))

	content := fmt.Sprintf(`[
  {"message": "hello", "r": "0x%x", "s": "0x%x"},
  {"z": "%064x", "r": "%064x", "s": "%064x"}
]`, rec1.R, rec1.S, rec2.Z, rec2.R, rec2.S)

	records, err := (&JSONParser{}).ParseSignatures(writeFixture(t, "sigs.json", content))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, rec1, records[0])
	require.Equal(t, rec2, records[1])

	findings, err := NewAuditor().Scan(context.Background(), records, priv.Public())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.True(t, findings[0].MatchesKey)
}

func TestJSONParserCustomFields(t *testing.T) {
	content := `[{"msg": "abc", "sig_r": 12345, "sig_s": "0xff"}]`
	parser := &JSONParser{MessageField: "msg", RField: "sig_r", SField: "sig_s"}

	records, err := parser.ParseSignatures(writeFixture(t, "custom.json", content))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, ecdsa.HashMessage([]byte("abc")), records[0].Z)
	require.Equal(t, big.NewInt(12345), records[0].R)
	require.Equal(t, big.NewInt(255), records[0].S)
}

func TestJSONParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"not json", `{{`, "failed to parse JSON"},
		{"missing r", `[{"message": "m", "s": "1"}]`, "missing r field"},
		{"missing s", `[{"message": "m", "r": "1"}]`, "missing s field"},
		{"missing z", `[{"r": "1", "s": "1"}]`, "missing message or z field"},
		{"bad number", `[{"message": "m", "r": "0xzz", "s": "1"}]`, "failed to parse r"},
		{"bool value", `[{"message": "m", "r": true, "s": "1"}]`, "unsupported type"},
		{"numeric message", `[{"message": 5, "r": "1", "s": "1"}]`, "message field must be a string"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := (&JSONParser{}).parse(strings.NewReader(test.content))
			require.ErrorContains(t, err, test.wantErr)
		})
	}

	_, err := (&JSONParser{}).ParseSignatures(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorContains(t, err, "failed to open file")
}

func TestCSVParser(t *testing.T) {
	priv := testKey(t)
	rec1 := signWithNonce(t, priv, "alpha", big.NewInt(8080))
	rec2 := signWithNonce(t, priv, "beta", big.NewInt(8080))

	content := fmt.Sprintf("message, r, s\nalpha, 0x%x, 0x%x\nbeta, %064x, %064x\n",
		rec1.R, rec1.S, rec2.R, rec2.S)

	var parser SignatureParser = &CSVParser{}
	records, err := parser.ParseSignatures(writeFixture(t, "sigs.csv", content))
	require.NoError(t, err)
	require.Equal(t, []*Record{rec1, rec2}, records)

	findings, err := NewAuditor().Scan(context.Background(), records, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, "same_nonce", findings[0].Pattern)
	require.Equal(t, 0, findings[0].PrivateKey.Cmp(priv.D()))
}

func TestCSVParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		parser  *CSVParser
		content string
		wantErr string
	}{
		{"empty", &CSVParser{}, "", "failed to read header"},
		{"no s column", &CSVParser{}, "message,r\nm,1\n", "missing required columns"},
		{"no digest column", &CSVParser{}, "r,s\n1,1\n", "missing message or z column"},
		{"bad z", &CSVParser{ZCol: "hash"}, "hash,r,s\nqq,1,1\n", "line 2: failed to parse z"},
		{"ragged row", &CSVParser{}, "message,r,s\nm,1\n", "failed to read record"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.parser.parse(strings.NewReader(test.content))
			require.ErrorContains(t, err, test.wantErr)
		})
	}
}

func TestParseBigInt(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
	}{
		{"0x1f", 31},
		{"0X1F", 31},
		{"31", 49},
		{"ff", 255},
		{" 42 ", 66},
		{fmt.Sprintf("%064x", 0x1234), 0x1234},
		{fmt.Sprintf("%064d", 99), 0x99},
		{json.Number("31"), 31},
	}

	for _, test := range tests {
		got, err := parseBigInt(test.in)
		require.NoError(t, err, "%v", test.in)
		require.Equal(t, test.want, got.Int64(), "%v", test.in)
	}

	for _, bad := range []interface{}{"", "-5", "+5", "0x", "xyz", json.Number("-5"), 3.5} {
		_, err := parseBigInt(bad)
		require.Error(t, err, "%v", bad)
	}
}
