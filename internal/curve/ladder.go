package curve

import (
	"github.com/cronokirby/safenum"
)

// jacobian is a point in Jacobian coordinates: (x, y, z) stands for the
// affine point (x/z², y/z³). Any z ≡ 0 encodes the identity.
type jacobian struct {
	x, y, z *safenum.Nat
}

func (c *Params) toJacobian(p Point) jacobian {
	if p.IsIdentity() {
		return jacobian{
			x: c.P.FromUint64(1),
			y: c.P.FromUint64(1),
			z: c.P.FromUint64(0),
		}
	}
	return jacobian{
		x: new(safenum.Nat).SetNat(p.x),
		y: new(safenum.Nat).SetNat(p.y),
		z: c.P.FromUint64(1),
	}
}

func (c *Params) fromJacobian(p jacobian) Point {
	zinv, err := c.P.Inverse(p.z)
	if err != nil {
		// z ≡ 0 is the point at infinity.
		return Identity()
	}
	zinv2 := c.P.Square(zinv)
	x := c.P.Mul(p.x, zinv2)
	y := c.P.Mul(p.y, c.P.Mul(zinv2, zinv))
	return c.affine(x, y)
}

// addJacobian returns a + b. It evaluates the generic addition, the
// doubling and both identity cases unconditionally and selects the right
// result with constant-time assignments.
//
// See https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian.html#addition-add-2007-bl
func (c *Params) addJacobian(a, b jacobian) jacobian {
	f := c.P

	z1z1 := f.Square(a.z)
	z2z2 := f.Square(b.z)
	u1 := f.Mul(a.x, z2z2)
	u2 := f.Mul(b.x, z1z1)
	h := f.Sub(u2, u1)
	xEqual := h.EqZero()
	i := f.Square(f.Add(h, h))
	j := f.Mul(h, i)

	s1 := f.Mul(f.Mul(a.y, b.z), z2z2)
	s2 := f.Mul(f.Mul(b.y, a.z), z1z1)
	r := f.Sub(s2, s1)
	yEqual := r.EqZero()
	r = f.Add(r, r)
	v := f.Mul(u1, i)

	x3 := f.Sub(f.Sub(f.Sub(f.Square(r), j), v), v)
	y3 := f.Sub(f.Mul(r, f.Sub(v, x3)), f.Mul(f.Add(s1, s1), j))
	z3 := f.Mul(f.Sub(f.Sub(f.Square(f.Add(a.z, b.z)), z1z1), z2z2), h)

	// Equal inputs make the formula degenerate, use the doubling instead.
	d := c.doubleJacobian(a)
	same := xEqual & yEqual
	x3.CondAssign(same, d.x)
	y3.CondAssign(same, d.y)
	z3.CondAssign(same, d.z)

	aInf := a.z.EqZero()
	x3.CondAssign(aInf, b.x)
	y3.CondAssign(aInf, b.y)
	z3.CondAssign(aInf, b.z)

	bInf := b.z.EqZero()
	x3.CondAssign(bInf, a.x)
	y3.CondAssign(bInf, a.y)
	z3.CondAssign(bInf, a.z)

	return jacobian{x: x3, y: y3, z: z3}
}

// doubleJacobian returns 2p for a curve with a = 0. The identity maps to
// itself since z3 = 2·y·z.
//
// See https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian-0.html#doubling-dbl-2009-l
func (c *Params) doubleJacobian(p jacobian) jacobian {
	f := c.P

	a := f.Square(p.x)
	b := f.Square(p.y)
	cc := f.Square(b)

	d := f.Sub(f.Sub(f.Square(f.Add(p.x, b)), a), cc)
	d = f.Add(d, d)
	e := f.Add(f.Add(a, a), a)

	x3 := f.Sub(f.Square(e), f.Add(d, d))

	c8 := f.Add(cc, cc)
	c8 = f.Add(c8, c8)
	c8 = f.Add(c8, c8)
	y3 := f.Sub(f.Mul(e, f.Sub(d, x3)), c8)

	z3 := f.Mul(f.Add(p.y, p.y), p.z)

	return jacobian{x: x3, y: y3, z: z3}
}

// condSwap exchanges a and b when swap is 1 without branching on it.
func condSwap(swap safenum.Choice, a, b *jacobian) {
	for _, pair := range [][2]*safenum.Nat{{a.x, b.x}, {a.y, b.y}, {a.z, b.z}} {
		t := new(safenum.Nat).SetNat(pair[0])
		pair[0].CondAssign(swap, pair[1])
		pair[1].CondAssign(swap, t)
	}
}

// ladder computes k·p where k is a big-endian integer. Every bit of k,
// including leading zeros, costs one addition and one doubling, and the
// only scalar dependent operation is a conditional swap.
func (c *Params) ladder(p Point, k []byte) Point {
	r0 := c.toJacobian(Identity())
	r1 := c.toJacobian(p)

	for _, byt := range k {
		for i := 7; i >= 0; i-- {
			bit := safenum.Choice((byt >> uint(i)) & 1)
			condSwap(bit, &r0, &r1)
			r1 = c.addJacobian(r0, r1)
			r0 = c.doubleJacobian(r0)
			condSwap(bit, &r0, &r1)
		}
	}

	return c.fromJacobian(r0)
}

// ScalarMult returns k·p. The scalar is reduced mod n and always processed
// as a full width value, so k = 0 and p = identity both yield the identity
// without special casing.
func (c *Params) ScalarMult(p Point, k *safenum.Nat) Point {
	return c.ladder(p, c.N.Bytes(k))
}

// ScalarBaseMult returns k·G.
func (c *Params) ScalarBaseMult(k *safenum.Nat) Point {
	return c.ScalarMult(c.G, k)
}
