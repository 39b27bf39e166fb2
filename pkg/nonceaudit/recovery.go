package nonceaudit

import (
	"errors"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-secp256k1/internal/curve"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

// ErrNoSolution is returned when a record pair and relationship leave the
// private key undetermined.
var ErrNoSolution = errors.New("nonceaudit: denominator is zero, private key is undetermined")

// RecoverPrivateKey recovers the private key from two signatures whose
// nonces satisfy k2 = a·k1 + b:
//
//	d = (a·s2·z1 - s1·z2 + b·s1·s2) / (r2·s1 - a·r1·s2) mod n
//
// The result is only a candidate; use consistent or VerifyRecoveredKey to
// confirm it.
//
// Args:
//   - rec1, rec2: Two records whose nonces are related
//   - a: Affine coefficient (k2 = a*k1 + b)
//   - b: Affine offset (k2 = a*k1 + b)
//
// Returns:
//   - Candidate private key in [0, n), or ErrNoSolution if the pair does not
//     determine it
func RecoverPrivateKey(rec1, rec2 *Record, a, b *big.Int) (*big.Int, error) {
	n := curve.S256().N.Big()

	// a·s2·z1 - s1·z2 + b·s1·s2
	numerator := new(big.Int).Mul(a, rec2.S)
	numerator.Mul(numerator, rec1.Z)
	numerator.Sub(numerator, new(big.Int).Mul(rec1.S, rec2.Z))
	bs1s2 := new(big.Int).Mul(b, rec1.S)
	bs1s2.Mul(bs1s2, rec2.S)
	numerator.Add(numerator, bs1s2)
	numerator.Mod(numerator, n)

	// r2·s1 - a·r1·s2
	denominator := new(big.Int).Mul(rec2.R, rec1.S)
	ar1s2 := new(big.Int).Mul(a, rec1.R)
	ar1s2.Mul(ar1s2, rec2.S)
	denominator.Sub(denominator, ar1s2)
	denominator.Mod(denominator, n)

	if denominator.Sign() == 0 {
		return nil, ErrNoSolution
	}

	d := new(big.Int).ModInverse(denominator, n)
	d.Mul(d, numerator)
	return d.Mod(d, n), nil
}

// VerifyRecoveredKey reports whether d is the private key behind pub.
//
// Args:
//   - d: Candidate private key
//   - pub: Public key to compare against
//
// Returns:
//   - true if d is in [1, n) and d·G equals pub
func VerifyRecoveredKey(d *big.Int, pub *ecdsa.PublicKey) bool {
	priv, err := ecdsa.NewPrivateKey(d)
	if err != nil {
		return false
	}
	return priv.Public().Equal(pub)
}

// consistent reports whether d explains both records under the given
// relationship, that is whether the implied nonces k1 and k2 = a·k1 + b
// reproduce r1 and r2.
func consistent(rec1, rec2 *Record, rel AffineRelationship, d *big.Int) bool {
	c := curve.S256()
	n := c.N.Big()
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return false
	}

	sInv := new(big.Int).ModInverse(new(big.Int).Mod(rec1.S, n), n)
	if sInv == nil {
		return false
	}

	// k1 = s1⁻¹·(z1 + r1·d)
	k1 := new(big.Int).Mul(rec1.R, d)
	k1.Add(k1, rec1.Z)
	k1.Mul(k1, sInv)
	k1.Mod(k1, n)

	k2 := new(big.Int).Mul(rel.A, k1)
	k2.Add(k2, rel.B)
	k2.Mod(k2, n)

	return nonceMatches(c, k1, rec1.R) && nonceMatches(c, k2, rec2.R)
}

// nonceMatches reports whether x(k·G) mod n equals r.
func nonceMatches(c *curve.Params, k, r *big.Int) bool {
	if k.Sign() == 0 {
		return false
	}
	R := c.ScalarBaseMult(c.N.FromBig(k))
	if R.IsIdentity() {
		return false
	}
	x := R.X()
	return x.Mod(x, c.N.Big()).Cmp(r) == 0
}
