package cyclefold

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	gfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
)

// projPoint is a BN254 point in homogeneous projective coordinates inside
// the constraint system. The identity is (0, 1, 0). The complete formulas
// below never branch, so the constraint shape is input-independent.
type projPoint struct {
	X, Y, Z Variable
}

// b3 is 3*b for the BN254 curve y^2 = x^3 + 3
func b3() gfr.Element {
	var res gfr.Element
	res.SetUint64(9)
	return res
}

// newIdentity allocates the constant identity point
func newIdentity(bd *Builder) projPoint {
	var one gfr.Element
	one.SetOne()
	return projPoint{X: Variable{}, Y: bd.Constant(one), Z: Variable{}}
}

// liftAffine lifts the affine public pair (x, y), with (0, 0) denoting the
// identity, to projective coordinates. The infinity marker is a witness bit
// pinned to zero coordinates. The public wires must be allocated by the
// caller so that all public inputs precede the first witness wire.
func liftAffine(bd *Builder, x, y Variable, p *bn254.G1Affine) projPoint {
	var isInf gfr.Element
	if p.IsInfinity() {
		isInf.SetOne()
	}
	inf := bd.Witness(isInf)
	bd.AssertBoolean(inf)
	// the identity encoding forces both coordinates to zero
	bd.MulEq(inf, x, Variable{})
	bd.MulEq(inf, y, Variable{})

	// (x, y, 1) for a finite point, (0, 1, 0) for the identity
	return projPoint{
		X: x,
		Y: bd.Add(y, inf),
		Z: bd.Sub(bd.One(), inf),
	}
}

// constrainAffineOutput constrains p to equal the affine public pair (x, y),
// again with (0, 0) for the identity. zInv is a witness satisfying
// Z*zInv = 1 - inf, which pins the affine coordinates through
// X*zInv = x and Y*zInv = y.
func constrainAffineOutput(bd *Builder, p projPoint, x, y Variable, out *bn254.G1Affine) {
	var isInf, zInvVal gfr.Element
	if out.IsInfinity() {
		isInf.SetOne()
	} else {
		z := bd.eval(p.Z)
		zInvVal.Inverse(&z)
	}
	inf := bd.Witness(isInf)
	zInv := bd.Witness(zInvVal)

	bd.AssertBoolean(inf)
	bd.MulEq(p.Z, inf, Variable{})
	bd.MulEq(p.Z, zInv, bd.Sub(bd.One(), inf))
	bd.MulEq(p.X, zInv, x)
	bd.MulEq(p.Y, zInv, y)
}

// addPoints is the complete projective addition for a = 0 short Weierstrass
// curves (Renes, Costello, Batina 2016, algorithm 7). 12 multiplication
// gates, the b3 scalings are free.
func addPoints(bd *Builder, p, q projPoint) projPoint {
	t0 := bd.Mul(p.X, q.X)
	t1 := bd.Mul(p.Y, q.Y)
	t2 := bd.Mul(p.Z, q.Z)

	t3 := bd.Mul(bd.Add(p.X, p.Y), bd.Add(q.X, q.Y))
	t3 = bd.Sub(t3, bd.Add(t0, t1)) // X1Y2 + X2Y1

	t4 := bd.Mul(bd.Add(p.Y, p.Z), bd.Add(q.Y, q.Z))
	t4 = bd.Sub(t4, bd.Add(t1, t2)) // Y1Z2 + Y2Z1

	t5 := bd.Mul(bd.Add(p.X, p.Z), bd.Add(q.X, q.Z))
	t5 = bd.Sub(t5, bd.Add(t0, t2)) // X1Z2 + X2Z1

	threeT0 := bd.Add(bd.Add(t0, t0), t0)
	b3t2 := bd.MulConst(t2, b3())
	b3t5 := bd.MulConst(t5, b3())

	sum := bd.Add(t1, b3t2)
	diff := bd.Sub(t1, b3t2)

	x := bd.Sub(bd.Mul(t3, diff), bd.Mul(t4, b3t5))
	y := bd.Add(bd.Mul(diff, sum), bd.Mul(b3t5, threeT0))
	z := bd.Add(bd.Mul(sum, t4), bd.Mul(t3, threeT0))

	return projPoint{X: x, Y: y, Z: z}
}

// doublePoint is the complete projective doubling for a = 0 curves
// (same paper, algorithm 9). 8 multiplication gates.
func doublePoint(bd *Builder, p projPoint) projPoint {
	t0 := bd.Mul(p.Y, p.Y)
	t1 := bd.Mul(p.Y, p.Z)
	t2 := bd.Mul(p.Z, p.Z)

	z3 := bd.Add(bd.Add(t0, t0), bd.Add(t0, t0))
	z3 = bd.Add(z3, z3) // 8Y^2

	b3t2 := bd.MulConst(t2, b3())
	x3 := bd.Mul(b3t2, z3)
	y3 := bd.Add(t0, b3t2)
	zOut := bd.Mul(t1, z3)

	threeB3t2 := bd.Add(bd.Add(b3t2, b3t2), b3t2)
	t0 = bd.Sub(t0, threeB3t2)

	y3 = bd.Mul(t0, y3)
	y3 = bd.Add(x3, y3)

	t1 = bd.Mul(p.X, p.Y)
	x3 = bd.Mul(t0, t1)
	x3 = bd.Add(x3, x3)

	return projPoint{X: x3, Y: y3, Z: zOut}
}

// selectPoint returns p when cond is 1 and q when cond is 0
func selectPoint(bd *Builder, cond Variable, p, q projPoint) projPoint {
	return projPoint{
		X: bd.Select(cond, p.X, q.X),
		Y: bd.Select(cond, p.Y, q.Y),
		Z: bd.Select(cond, p.Z, q.Z),
	}
}

// negPoint flips the y coordinate, no constraints
func negPoint(bd *Builder, p projPoint) projPoint {
	return projPoint{X: p.X, Y: bd.Neg(p.Y), Z: p.Z}
}

// scalarMulBits computes the double-and-add ladder over the bit decomposition
// of the scalar, most significant bit first, starting from the identity
func scalarMulBits(bd *Builder, bits []Variable, p projPoint) projPoint {
	acc := newIdentity(bd)
	for i := len(bits) - 1; i >= 0; i-- {
		acc = doublePoint(bd, acc)
		withP := addPoints(bd, acc, p)
		acc = selectPoint(bd, bits[i], withP, acc)
	}
	return acc
}
