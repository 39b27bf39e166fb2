package field

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	secp256k1P = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"
	secp256k1N = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"
)

func mustField(t *testing.T, hex string) *Field {
	t.Helper()
	f, err := FromHex(hex)
	require.NoError(t, err)
	return f
}

func TestFromHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"small prime", "3b", false},
		{"prefixed", "0x3b", false},
		{"secp256k1 p", secp256k1P, false},
		{"secp256k1 n", secp256k1N, false},
		{"not hex", "zz", true},
		{"empty", "", true},
		{"bare prefix", "0x", true},
		{"even", "10", true},
		{"odd composite", "f", true},
		{"negative", "-7", true},
		{"zero", "0", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := FromHex(test.in)
			if test.wantErr {
				require.ErrorIs(t, err, ErrParameter)
				require.Nil(t, f)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, f.Modulus())
		})
	}
}

func TestFieldSizes(t *testing.T) {
	f := mustField(t, secp256k1P)
	require.Equal(t, 256, f.BitLen())
	require.Equal(t, 32, f.ByteLen())

	want, _ := new(big.Int).SetString(secp256k1P, 16)
	require.Zero(t, f.Big().Cmp(want))

	// The returned modulus must be a copy.
	f.Big().SetInt64(1)
	require.Zero(t, f.Big().Cmp(want))
}

func TestArithmeticSmallField(t *testing.T) {
	f := mustField(t, "3b") // 59

	tests := []struct {
		name string
		op   func(a, b uint64) *big.Int
		a, b uint64
		want int64
	}{
		{"add", func(a, b uint64) *big.Int { return f.ToBig(f.Add(f.FromUint64(a), f.FromUint64(b))) }, 40, 30, 11},
		{"sub no wrap", func(a, b uint64) *big.Int { return f.ToBig(f.Sub(f.FromUint64(a), f.FromUint64(b))) }, 9, 4, 5},
		{"sub wraps", func(a, b uint64) *big.Int { return f.ToBig(f.Sub(f.FromUint64(a), f.FromUint64(b))) }, 3, 5, 57},
		{"mul", func(a, b uint64) *big.Int { return f.ToBig(f.Mul(f.FromUint64(a), f.FromUint64(b))) }, 10, 12, 2},
		{"neg", func(a, _ uint64) *big.Int { return f.ToBig(f.Neg(f.FromUint64(a))) }, 1, 0, 58},
		{"neg zero", func(a, _ uint64) *big.Int { return f.ToBig(f.Neg(f.FromUint64(a))) }, 0, 0, 0},
		{"square", func(a, _ uint64) *big.Int { return f.ToBig(f.Square(f.FromUint64(a))) }, 8, 0, 5},
		{"reduce on input", func(a, _ uint64) *big.Int { return f.ToBig(f.FromUint64(a)) }, 60, 0, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.op(test.a, test.b)
			require.Equal(t, test.want, got.Int64())
		})
	}
}

// TestInverseSmallField checks inverse(a)·a ≡ 1 for every non-zero residue.
func TestInverseSmallField(t *testing.T) {
	f := mustField(t, "3b")
	one := f.FromUint64(1)

	for a := uint64(1); a < 59; a++ {
		inv, err := f.Inverse(f.FromUint64(a))
		require.NoError(t, err)
		require.True(t, f.Equal(f.Mul(inv, f.FromUint64(a)), one), "a=%d", a)
	}
}

func TestInverseLargeField(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, hex := range []string{secp256k1P, secp256k1N} {
		f := mustField(t, hex)
		one := f.FromUint64(1)
		m := f.Big()

		for i := 0; i < 32; i++ {
			a := new(big.Int).Rand(rng, m)
			if a.Sign() == 0 {
				continue
			}

			inv, err := f.Inverse(f.FromBig(a))
			require.NoError(t, err)
			require.True(t, f.Equal(f.Mul(inv, f.FromBig(a)), one))
			require.Zero(t, f.ToBig(inv).Cmp(new(big.Int).ModInverse(a, m)))
		}
	}
}

func TestInverseOfZero(t *testing.T) {
	f := mustField(t, "3b")

	_, err := f.Inverse(f.FromUint64(0))
	require.ErrorIs(t, err, ErrNotInvertible)

	// A multiple of the modulus is congruent to zero as well.
	_, err = f.Inverse(f.FromBig(big.NewInt(118)))
	require.ErrorIs(t, err, ErrNotInvertible)
}

func TestConversions(t *testing.T) {
	f := mustField(t, "3b")

	require.Equal(t, int64(57), f.ToBig(f.FromBig(big.NewInt(-2))).Int64())
	require.Equal(t, int64(20), f.ToBig(f.FromBytes([]byte{0x01, 0x00})).Int64()) // 256 mod 59
	require.Equal(t, []byte{0x05}, f.Bytes(f.FromUint64(64)))
	require.True(t, f.IsZero(f.FromUint64(59)))
	require.False(t, f.IsZero(f.FromUint64(58)))

	big32 := mustField(t, secp256k1P)
	require.Len(t, big32.Bytes(big32.FromUint64(1)), 32)
}
