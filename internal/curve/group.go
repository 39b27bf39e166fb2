package curve

import (
	"fmt"

	"github.com/cronokirby/safenum"
)

// polynomial returns x³ + b.
func (c *Params) polynomial(x *safenum.Nat) *safenum.Nat {
	x3 := c.P.Mul(c.P.Square(x), x)
	return c.P.Add(x3, c.B)
}

// IsOnCurve reports whether p is an affine point satisfying y² = x³ + b.
// The identity has no affine coordinates and is reported as not on the
// curve, so callers validating untrusted points reject it as well.
func (c *Params) IsOnCurve(p Point) bool {
	if p.IsIdentity() {
		return false
	}
	return c.P.Equal(c.P.Square(p.y), c.polynomial(p.x))
}

// Neg returns -p.
func (c *Params) Neg(p Point) Point {
	if p.IsIdentity() {
		return p
	}
	return c.affine(p.x, c.P.Neg(p.y))
}

// Add returns p + q using the affine chord and tangent rules.
//
// An error is only possible when a denominator vanishes, which cannot
// happen for points on a prime order curve without points of order two.
// It is reported rather than producing a bogus point.
func (c *Params) Add(p, q Point) (Point, error) {
	switch {
	case p.IsIdentity():
		return q, nil
	case q.IsIdentity():
		return p, nil
	}

	f := c.P
	var slope *safenum.Nat
	if f.Equal(p.x, q.x) {
		if !f.Equal(p.y, q.y) {
			// q = -p
			return Identity(), nil
		}

		// Tangent: 3x² / 2y.
		num := f.Mul(f.FromUint64(3), f.Square(p.x))
		den, err := f.Inverse(f.Add(p.y, p.y))
		if err != nil {
			return Point{}, fmt.Errorf("curve: doubling %v: %w", p, err)
		}
		slope = f.Mul(num, den)
	} else {
		// Chord: (y2 - y1) / (x2 - x1).
		den, err := f.Inverse(f.Sub(q.x, p.x))
		if err != nil {
			return Point{}, fmt.Errorf("curve: adding %v and %v: %w", p, q, err)
		}
		slope = f.Mul(f.Sub(q.y, p.y), den)
	}

	x := f.Sub(f.Sub(f.Square(slope), p.x), q.x)
	y := f.Sub(f.Mul(slope, f.Sub(p.x, x)), p.y)
	return c.affine(x, y), nil
}

// Double returns 2p.
func (c *Params) Double(p Point) (Point, error) {
	return c.Add(p, p)
}
