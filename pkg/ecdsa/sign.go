package ecdsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cronokirby/safenum"

	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/entropy"
)

// HashMessage returns SHA-256(message) as a big-endian integer mod n.
func HashMessage(message []byte) *big.Int {
	c := curve.S256()
	return c.N.ToBig(hashToScalar(c, message))
}

func hashToScalar(c *curve.Params, message []byte) *safenum.Nat {
	return c.N.FromBytes(chainhash.HashB(message))
}

// Sign signs message with priv, drawing the nonce from rand.
//
// A nonce that yields r = 0 or s = 0 is discarded and a new one is drawn.
// Sign gives up with ErrNonceExhausted after a bounded number of draws.
func Sign(rand io.Reader, priv *PrivateKey, message []byte) (*Signature, error) {
	if priv == nil || priv.d == nil {
		return nil, makeError(ErrInvalidPrivateKey, "missing private key")
	}

	c := curve.S256()
	z := hashToScalar(c, message)

	for attempt := 1; attempt <= maxDrawAttempts; attempt++ {
		k, err := entropy.Below(rand, c.N.Modulus())
		if err != nil {
			str := fmt.Sprintf("drawing nonce: %v", err)
			return nil, makeError(ErrEntropy, str)
		}

		if sig := signWithNonce(c, priv.d, z, k); sig != nil {
			return sig, nil
		}
		log.Debugf("Discarded degenerate nonce on attempt %d", attempt)
	}

	str := fmt.Sprintf("no usable nonce after %d draws", maxDrawAttempts)
	return nil, makeError(ErrNonceExhausted, str)
}

// signWithNonce computes (r, s) for the digest z, private scalar d and nonce
// k. It returns nil when k is unusable: k = 0, r = 0 or s = 0.
func signWithNonce(c *curve.Params, d, z, k *safenum.Nat) *Signature {
	n := c.N
	if n.IsZero(k) {
		return nil
	}

	R := c.ScalarBaseMult(k)
	if R.IsIdentity() {
		return nil
	}
	r := n.FromBig(R.X())
	if n.IsZero(r) {
		return nil
	}

	kInv, err := n.Inverse(k)
	if err != nil {
		return nil
	}
	s := n.Mul(kInv, n.Add(z, n.Mul(r, d)))
	if n.IsZero(s) {
		return nil
	}

	return &Signature{R: n.ToBig(r), S: n.ToBig(s)}
}
