package ecdsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/safenum"

	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/entropy"
)

// maxDrawAttempts bounds the number of random draws spent on a single key or
// signature. A healthy source needs more than one draw with probability
// around 2^-128, so hitting the bound means the source is broken.
const maxDrawAttempts = 64

// PublicKey is a secp256k1 public key, the point Q = d·G.
type PublicKey struct {
	q curve.Point
}

// NewPublicKey returns the public key with the given affine coordinates.
func NewPublicKey(x, y *big.Int) (*PublicKey, error) {
	q, err := curve.S256().NewPoint(x, y)
	if err != nil {
		str := fmt.Sprintf("invalid public key: %v", err)
		return nil, makeError(ErrInvalidPublicKey, str)
	}
	return &PublicKey{q: q}, nil
}

// X returns a copy of the x coordinate of the key.
func (k *PublicKey) X() *big.Int {
	return k.q.X()
}

// Y returns a copy of the y coordinate of the key.
func (k *PublicKey) Y() *big.Int {
	return k.q.Y()
}

// Equal reports whether k and other are the same key.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.q.Equal(other.q)
}

// String returns the key coordinates in hex.
func (k *PublicKey) String() string {
	return k.q.String()
}

// PrivateKey is a secp256k1 private key together with its public key.
type PrivateKey struct {
	PublicKey
	d *safenum.Nat
}

// NewPrivateKey returns the key pair for the scalar d, which must be in
// [1, n-1].
func NewPrivateKey(d *big.Int) (*PrivateKey, error) {
	c := curve.S256()
	if d == nil || d.Sign() <= 0 || d.Cmp(c.N.Big()) >= 0 {
		return nil, makeError(ErrInvalidPrivateKey,
			"private key must be in the range [1, n-1]")
	}
	return newPrivateKey(c, c.N.FromBig(d)), nil
}

// GenerateKey draws a private key uniformly from [1, n-1] using rand, which
// should be crypto/rand.Reader outside of tests.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	c := curve.S256()
	for i := 0; i < maxDrawAttempts; i++ {
		d, err := entropy.Below(rand, c.N.Modulus())
		if err != nil {
			str := fmt.Sprintf("generating private key: %v", err)
			return nil, makeError(ErrEntropy, str)
		}
		if c.N.IsZero(d) {
			log.Debugf("Drew a zero private key, drawing again")
			continue
		}
		return newPrivateKey(c, d), nil
	}

	str := fmt.Sprintf("no usable private key after %d draws", maxDrawAttempts)
	return nil, makeError(ErrEntropy, str)
}

func newPrivateKey(c *curve.Params, d *safenum.Nat) *PrivateKey {
	return &PrivateKey{
		PublicKey: PublicKey{q: c.ScalarBaseMult(d)},
		d:         d,
	}
}

// D returns a copy of the private scalar.
func (k *PrivateKey) D() *big.Int {
	return curve.S256().N.ToBig(k.d)
}

// Public returns the public half of the key pair.
func (k *PrivateKey) Public() *PublicKey {
	pub := k.PublicKey
	return &pub
}

// String describes the key without revealing the private scalar.
func (k *PrivateKey) String() string {
	return fmt.Sprintf("PrivateKey{pub: %v}", k.q)
}

// GoString keeps %#v from dumping the private scalar.
func (k *PrivateKey) GoString() string {
	return k.String()
}
