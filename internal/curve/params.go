// Package curve implements the secp256k1 group: y² = x³ + 7 over the prime
// field F_p, with a generator G of prime order n.
//
// Points are immutable values. The group law is written in affine
// coordinates following the textbook chord and tangent construction, while
// scalar multiplication runs a fixed-length Montgomery ladder in Jacobian
// coordinates so that its control flow does not depend on the scalar.
package curve

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/cronokirby/safenum"

	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/field"
)

// secp256k1 domain parameters, see SEC 2 v2 section 2.4.1.
const (
	secp256k1P  = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"
	secp256k1N  = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"
	secp256k1Gx = "79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"
	secp256k1Gy = "483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"
	secp256k1B  = 7
)

// Params holds the domain parameters of a short Weierstrass curve with
// a = 0. A Params value is immutable once built and safe for concurrent use.
type Params struct {
	Name    string
	P       *field.Field // coordinate field
	N       *field.Field // scalar field, the order of G
	B       *safenum.Nat // y² = x³ + B
	G       Point
	BitSize int
}

var (
	initOnce  sync.Once
	secp256k1 *Params
	initErr   error
)

// S256 returns the secp256k1 parameters. They are parsed and validated the
// first time S256 is called and shared afterwards. A failure to build them
// means the process cannot do anything useful, so it panics.
func S256() *Params {
	initOnce.Do(func() {
		secp256k1, initErr = newParams("secp256k1", secp256k1P, secp256k1N,
			secp256k1Gx, secp256k1Gy, secp256k1B)
	})
	if initErr != nil {
		panic(initErr)
	}
	return secp256k1
}

// newParams parses and validates a set of curve constants.
func newParams(name, p, n, gx, gy string, b uint64) (*Params, error) {
	pf, err := field.FromHex(p)
	if err != nil {
		return nil, fmt.Errorf("curve %s: field prime: %w", name, err)
	}
	nf, err := field.FromHex(n)
	if err != nil {
		return nil, fmt.Errorf("curve %s: group order: %w", name, err)
	}

	x, okX := new(big.Int).SetString(gx, 16)
	y, okY := new(big.Int).SetString(gy, 16)
	if !okX || !okY {
		return nil, fmt.Errorf("curve %s: %w: generator is not hexadecimal",
			name, field.ErrParameter)
	}

	c := &Params{
		Name:    name,
		P:       pf,
		N:       nf,
		B:       pf.FromUint64(b),
		BitSize: nf.BitLen(),
	}

	g, err := c.NewPoint(x, y)
	if err != nil {
		return nil, fmt.Errorf("curve %s: generator: %w", name, err)
	}
	c.G = g

	if !c.ladder(g, nf.Big().Bytes()).IsIdentity() {
		return nil, fmt.Errorf("curve %s: %w: generator order is not n",
			name, field.ErrParameter)
	}

	return c, nil
}
