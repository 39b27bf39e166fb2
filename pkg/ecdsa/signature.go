package ecdsa

import (
	"fmt"
	"math/big"
)

// Signature is an ECDSA signature. Both values are in [1, n-1] for
// signatures produced by Sign.
type Signature struct {
	R *big.Int // x coordinate of k·G, mod n
	S *big.Int // k⁻¹(z + r·d) mod n
}

// Verify reports whether sig is a valid signature of message by pub.
func (sig *Signature) Verify(pub *PublicKey, message []byte) bool {
	if sig == nil {
		return false
	}
	return Verify(pub, message, sig.R, sig.S)
}

// Equal reports whether both signatures have the same r and s.
func (sig *Signature) Equal(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	return sig.R.Cmp(other.R) == 0 && sig.S.Cmp(other.S) == 0
}

// String returns the signature values in hex.
func (sig *Signature) String() string {
	return fmt.Sprintf("(r: %064x, s: %064x)", sig.R, sig.S)
}
