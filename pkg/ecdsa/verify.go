package ecdsa

import (
	"math/big"

	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/curve"
)

// Verify reports whether (r, s) is a valid signature of message under pub.
//
// Values of r or s outside [1, n-1] are rejected before any curve
// arithmetic. All failures are reported as false.
func Verify(pub *PublicKey, message []byte, r, s *big.Int) bool {
	c := curve.S256()
	if pub == nil || pub.q.IsIdentity() {
		log.Tracef("Rejecting signature: missing public key")
		return false
	}
	if !inScalarRange(c, r) || !inScalarRange(c, s) {
		log.Tracef("Rejecting signature: r or s out of range")
		return false
	}

	n := c.N
	z := hashToScalar(c, message)
	rn := n.FromBig(r)
	w, err := n.Inverse(n.FromBig(s))
	if err != nil {
		return false
	}
	u1 := n.Mul(z, w)
	u2 := n.Mul(rn, w)

	p, err := c.Add(c.ScalarBaseMult(u1), c.ScalarMult(pub.q, u2))
	if err != nil {
		log.Tracef("Rejecting signature: %v", err)
		return false
	}
	if p.IsIdentity() {
		log.Tracef("Rejecting signature: u1·G + u2·Q is the identity")
		return false
	}

	return n.Equal(n.FromBig(p.X()), rn)
}

// inScalarRange reports whether v is in [1, n-1].
func inScalarRange(c *curve.Params, v *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(c.N.Big()) < 0
}
