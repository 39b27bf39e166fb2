package curve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cronokirby/safenum"
)

// coordinateLen is the byte width of a secp256k1 coordinate.
const coordinateLen = 32

var (
	// ErrNotOnCurve is returned when affine coordinates do not satisfy the
	// curve equation.
	ErrNotOnCurve = errors.New("curve: point is not on the curve")

	// ErrCoordinateRange is returned when a coordinate is negative or not
	// below the field prime.
	ErrCoordinateRange = errors.New("curve: coordinate out of range")
)

// Point is an element of the curve group: either an affine point (x, y) or
// the identity element, the point at infinity. The zero value is the
// identity.
type Point struct {
	x, y   *safenum.Nat
	affine bool
}

// Identity returns the neutral element of the group.
func Identity() Point {
	return Point{}
}

// NewPoint returns the affine point (x, y) after checking that both
// coordinates are canonical field elements and that the point lies on the
// curve.
func (c *Params) NewPoint(x, y *big.Int) (Point, error) {
	p := c.P.Big()
	for _, v := range []*big.Int{x, y} {
		if v == nil || v.Sign() < 0 || v.Cmp(p) >= 0 {
			return Point{}, ErrCoordinateRange
		}
	}

	pt := c.affine(c.P.FromBig(x), c.P.FromBig(y))
	if !c.IsOnCurve(pt) {
		return Point{}, ErrNotOnCurve
	}
	return pt, nil
}

// affine wraps already reduced coordinates without validation.
func (c *Params) affine(x, y *safenum.Nat) Point {
	return Point{x: x, y: y, affine: true}
}

// IsIdentity reports whether p is the point at infinity.
func (p Point) IsIdentity() bool {
	return !p.affine
}

// X returns a copy of the x coordinate, or nil for the identity.
func (p Point) X() *big.Int {
	if !p.affine {
		return nil
	}
	return natToBig(p.x)
}

// Y returns a copy of the y coordinate, or nil for the identity.
func (p Point) Y() *big.Int {
	if !p.affine {
		return nil
	}
	return natToBig(p.y)
}

// Equal reports whether p and q are the same group element.
func (p Point) Equal(q Point) bool {
	if !p.affine || !q.affine {
		return p.affine == q.affine
	}
	return p.x.Eq(q.x) == 1 && p.y.Eq(q.y) == 1
}

// String returns the point as hex coordinates, or "identity".
func (p Point) String() string {
	if !p.affine {
		return "identity"
	}
	return fmt.Sprintf("(%064x, %064x)", p.X(), p.Y())
}

func natToBig(n *safenum.Nat) *big.Int {
	return new(big.Int).SetBytes(n.FillBytes(make([]byte, coordinateLen)))
}
