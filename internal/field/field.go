// Package field implements modular arithmetic over a fixed odd prime modulus.
//
// Values are safenum.Nat instances. Every operation returns a freshly
// allocated value reduced into [0, m), so results can be shared freely
// between callers without aliasing.
package field

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/cronokirby/safenum"
)

var (
	// ErrParameter is returned when a modulus constant cannot be used: it
	// is not valid hexadecimal, is even, or is not prime.
	ErrParameter = errors.New("field: invalid modulus")

	// ErrNotInvertible is returned when an inverse is requested for a value
	// congruent to zero.
	ErrNotInvertible = errors.New("field: value has no inverse")
)

// primalityRounds is the number of Miller-Rabin rounds used to validate a
// modulus when it is parsed.
const primalityRounds = 20

// Field performs arithmetic modulo m.
type Field struct {
	m       *safenum.Modulus
	big     *big.Int
	byteLen int
}

// FromHex parses a hexadecimal prime modulus, with or without a 0x prefix.
func FromHex(s string) (*Field, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	m, ok := new(big.Int).SetString(digits, 16)
	if !ok || digits == "" {
		return nil, fmt.Errorf("%w: %q is not hexadecimal", ErrParameter, s)
	}
	return New(m)
}

// New builds a field from an already parsed modulus.
func New(m *big.Int) (*Field, error) {
	switch {
	case m.Sign() <= 0:
		return nil, fmt.Errorf("%w: modulus must be positive", ErrParameter)
	case m.Bit(0) == 0:
		return nil, fmt.Errorf("%w: modulus must be odd", ErrParameter)
	case !m.ProbablyPrime(primalityRounds):
		return nil, fmt.Errorf("%w: modulus %x is not prime", ErrParameter, m)
	}

	nat := new(safenum.Nat).SetBig(m, m.BitLen())
	return &Field{
		m:       safenum.ModulusFromNat(nat),
		big:     new(big.Int).Set(m),
		byteLen: (m.BitLen() + 7) / 8,
	}, nil
}

// Modulus returns the modulus in the form safenum operations expect.
func (f *Field) Modulus() *safenum.Modulus {
	return f.m
}

// Big returns a copy of the modulus.
func (f *Field) Big() *big.Int {
	return new(big.Int).Set(f.big)
}

// BitLen returns the bit length of the modulus.
func (f *Field) BitLen() int {
	return f.big.BitLen()
}

// ByteLen returns the number of bytes needed to hold any reduced element.
func (f *Field) ByteLen() int {
	return f.byteLen
}

// Reduce returns a mod m.
func (f *Field) Reduce(a *safenum.Nat) *safenum.Nat {
	return new(safenum.Nat).Mod(a, f.m)
}

// Add returns a + b mod m.
func (f *Field) Add(a, b *safenum.Nat) *safenum.Nat {
	return new(safenum.Nat).ModAdd(a, b, f.m)
}

// Sub returns a - b mod m. When a < b the result wraps through m rather
// than underflowing.
func (f *Field) Sub(a, b *safenum.Nat) *safenum.Nat {
	return new(safenum.Nat).ModSub(a, b, f.m)
}

// Mul returns a * b mod m.
func (f *Field) Mul(a, b *safenum.Nat) *safenum.Nat {
	return new(safenum.Nat).ModMul(a, b, f.m)
}

// Neg returns -a mod m.
func (f *Field) Neg(a *safenum.Nat) *safenum.Nat {
	return new(safenum.Nat).ModSub(new(safenum.Nat), a, f.m)
}

// Square returns a² mod m.
func (f *Field) Square(a *safenum.Nat) *safenum.Nat {
	return new(safenum.Nat).ModMul(a, a, f.m)
}

// Inverse returns a⁻¹ mod m. Since m is prime the only non-invertible
// residue is zero, which is reported as ErrNotInvertible.
func (f *Field) Inverse(a *safenum.Nat) (*safenum.Nat, error) {
	r := f.Reduce(a)
	if r.EqZero() == 1 {
		return nil, ErrNotInvertible
	}
	return new(safenum.Nat).ModInverse(r, f.m), nil
}

// IsZero reports whether a ≡ 0 mod m.
func (f *Field) IsZero(a *safenum.Nat) bool {
	return f.Reduce(a).EqZero() == 1
}

// Equal reports whether a ≡ b mod m.
func (f *Field) Equal(a, b *safenum.Nat) bool {
	return f.Reduce(a).Eq(f.Reduce(b)) == 1
}

// FromUint64 returns v mod m.
func (f *Field) FromUint64(v uint64) *safenum.Nat {
	return f.Reduce(new(safenum.Nat).SetUint64(v))
}

// FromBig returns x mod m. Negative inputs are mapped to their canonical
// non-negative residue.
func (f *Field) FromBig(x *big.Int) *safenum.Nat {
	r := new(big.Int).Mod(x, f.big)
	return f.Reduce(new(safenum.Nat).SetBytes(r.Bytes()))
}

// FromBytes interprets b as a big-endian integer and reduces it mod m.
func (f *Field) FromBytes(b []byte) *safenum.Nat {
	return f.Reduce(new(safenum.Nat).SetBytes(b))
}

// Bytes returns the reduced value of a as a fixed-width big-endian slice.
func (f *Field) Bytes(a *safenum.Nat) []byte {
	return f.Reduce(a).FillBytes(make([]byte, f.byteLen))
}

// ToBig converts the reduced value of a to a big.Int.
func (f *Field) ToBig(a *safenum.Nat) *big.Int {
	return new(big.Int).SetBytes(f.Bytes(a))
}
