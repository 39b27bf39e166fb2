// Package entropy draws uniformly distributed integers below a bound.
package entropy

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/safenum"
)

// maxAttempts bounds the draws made by a single call to Below. Each draw is
// accepted with probability above 1/2, so a working source runs out with
// probability below 2^-128.
const maxAttempts = 128

// ErrExhausted is returned when every draw allowed to Below was at or above
// the bound. It means the source is not producing random bytes.
var ErrExhausted = errors.New("entropy: no draw fell below the bound")

// topMask clears the bits of the leading byte above the bound's bit length.
// It is indexed by bitLen % 8.
var topMask = []byte{0xff, 0x01, 0x03, 0x07, 0x0f, 0x1f, 0x3f, 0x7f}

// Below returns a value drawn uniformly from [0, bound).
//
// Each attempt reads ceil(bits(bound)/8) bytes from r, interprets them as a
// big-endian integer, clears any bits above bits(bound), and keeps the value
// only if it is below bound. Since the masked draw is always below
// 2^bits(bound), each attempt succeeds with probability greater than 1/2.
//
// r must be a cryptographically secure source since the result is used as
// a private key or a signing nonce.
func Below(r io.Reader, bound *safenum.Modulus) (*safenum.Nat, error) {
	bitLen := bound.BitLen()
	buf := make([]byte, (bitLen+7)/8)

	for i := 0; i < maxAttempts; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("entropy: reading random bytes: %w", err)
		}
		buf[0] &= topMask[bitLen%8]

		v := new(safenum.Nat).SetBytes(buf)
		if _, _, lt := v.CmpMod(bound); lt == 1 {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w after %d draws", ErrExhausted, maxAttempts)
}
