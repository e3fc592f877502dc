package cyclefold

import (
	"math/big"

	gfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
)

// term is one column entry of a constraint row
type term struct {
	Wire  int
	Coeff gfr.Element
}

// lincomb is a sparse linear form over the extended witness vector
// z = [u, X..., W...]. Wire 0 is the relaxation scalar, 1 in a strict
// assignment, so constants appear as coefficients on wire 0.
type lincomb []term

// Variable is a linear form over the wires. Additions and constant
// multiplications are free, only Mul and the assertions emit constraints.
type Variable struct {
	terms lincomb
}

// Builder synthesizes an R1CS over the Grumpkin scalar field while tracking
// a satisfying assignment alongside the constraints. Public inputs must all
// be allocated before the first witness wire so that the z-vector keeps the
// [u, X, W] layout.
type Builder struct {
	a, b, c []lincomb
	values  []gfr.Element
	nPublic int
	sealed  bool
}

func NewBuilder() *Builder {
	var one gfr.Element
	one.SetOne()
	return &Builder{values: []gfr.Element{one}}
}

// One is the relaxation wire, equal to 1 in a strict assignment
func (bd *Builder) One() Variable {
	var one gfr.Element
	one.SetOne()
	return Variable{terms: lincomb{{Wire: 0, Coeff: one}}}
}

func (bd *Builder) Constant(v gfr.Element) Variable {
	return Variable{terms: lincomb{{Wire: 0, Coeff: v}}}
}

// PublicInput allocates the next public wire. Panics if a witness wire has
// already been allocated, that would scramble the z-vector layout.
func (bd *Builder) PublicInput(v gfr.Element) Variable {
	if bd.sealed {
		panic("cyclefold: public input allocated after a witness wire")
	}
	bd.nPublic++
	return bd.newWire(v)
}

// Witness allocates an internal wire carrying v
func (bd *Builder) Witness(v gfr.Element) Variable {
	bd.sealed = true
	return bd.newWire(v)
}

func (bd *Builder) newWire(v gfr.Element) Variable {
	wire := len(bd.values)
	bd.values = append(bd.values, v)
	var one gfr.Element
	one.SetOne()
	return Variable{terms: lincomb{{Wire: wire, Coeff: one}}}
}

// eval resolves the current value of a linear form
func (bd *Builder) eval(v Variable) gfr.Element {
	var res, tmp gfr.Element
	for _, t := range v.terms {
		tmp.Mul(&t.Coeff, &bd.values[t.Wire])
		res.Add(&res, &tmp)
	}
	return res
}

func (bd *Builder) Add(x, y Variable) Variable {
	terms := make(lincomb, 0, len(x.terms)+len(y.terms))
	terms = append(terms, x.terms...)
	terms = append(terms, y.terms...)
	return Variable{terms: terms}
}

func (bd *Builder) Sub(x, y Variable) Variable {
	return bd.Add(x, bd.Neg(y))
}

func (bd *Builder) Neg(x Variable) Variable {
	terms := make(lincomb, len(x.terms))
	for i, t := range x.terms {
		terms[i].Wire = t.Wire
		terms[i].Coeff.Neg(&t.Coeff)
	}
	return Variable{terms: terms}
}

func (bd *Builder) MulConst(x Variable, k gfr.Element) Variable {
	terms := make(lincomb, len(x.terms))
	for i, t := range x.terms {
		terms[i].Wire = t.Wire
		terms[i].Coeff.Mul(&t.Coeff, &k)
	}
	return Variable{terms: terms}
}

// Mul emits a multiplication gate and returns the fresh product wire
func (bd *Builder) Mul(x, y Variable) Variable {
	vx, vy := bd.eval(x), bd.eval(y)
	var v gfr.Element
	v.Mul(&vx, &vy)
	res := bd.Witness(v)
	bd.constrain(x, y, res)
	return res
}

// MulEq asserts x * y == z
func (bd *Builder) MulEq(x, y, z Variable) {
	bd.constrain(x, y, z)
}

// AssertEq asserts x == y as the gate (x - y) * u == 0
func (bd *Builder) AssertEq(x, y Variable) {
	bd.constrain(bd.Sub(x, y), bd.One(), Variable{})
}

// AssertBoolean asserts x * (x - 1) == 0
func (bd *Builder) AssertBoolean(x Variable) {
	bd.constrain(x, bd.Sub(x, bd.One()), Variable{})
}

// Select returns ifSet when cond is 1 and ifNot when cond is 0,
// as ifNot + cond*(ifSet - ifNot)
func (bd *Builder) Select(cond, ifSet, ifNot Variable) Variable {
	return bd.Add(ifNot, bd.Mul(cond, bd.Sub(ifSet, ifNot)))
}

// ToBits decomposes x into n bits, least significant first, asserting
// booleanity of each bit, the recomposition, and that the bit string is
// canonical, strictly below the field modulus. Booleanity and recomposition
// alone admit a second encoding x + p whenever x < 2^n - p, and the ladder
// would then run over a different integer than the wire value.
func (bd *Builder) ToBits(x Variable, n int) []Variable {
	v := bd.eval(x)
	return bd.bitDecomposition(x, v.BigInt(new(big.Int)), n)
}

func (bd *Builder) bitDecomposition(x Variable, b *big.Int, n int) []Variable {
	bits := make([]Variable, n)
	sum := Variable{}
	var coeff gfr.Element
	coeff.SetOne()
	var two gfr.Element
	two.SetUint64(2)

	for i := 0; i < n; i++ {
		var bit gfr.Element
		if b.Bit(i) == 1 {
			bit.SetOne()
		}
		bits[i] = bd.Witness(bit)
		bd.AssertBoolean(bits[i])
		sum = bd.Add(sum, bd.MulConst(bits[i], coeff))
		coeff.Mul(&coeff, &two)
	}
	bd.AssertEq(sum, x)

	if n >= gfr.Modulus().BitLen() {
		bound := new(big.Int).Sub(gfr.Modulus(), big.NewInt(1))
		bd.assertBitsLessOrEq(bits, bound)
	}
	return bits
}

// assertBitsLessOrEq asserts that the little-endian bit string is at most
// the constant bound. p[i] tracks "every bit above position i matches the
// bound", as the product of the string's bits over the bound's set
// positions; wherever the bound has a zero bit, (1 - p[i+1] - b_i) * b_i = 0
// forces b_i to zero while the prefix still matches.
func (bd *Builder) assertBitsLessOrEq(bits []Variable, bound *big.Int) {
	n := len(bits)
	p := make([]Variable, n+1)
	p[n] = bd.One()
	for i := n - 1; i >= 0; i-- {
		if bound.Bit(i) == 1 {
			p[i] = bd.Mul(p[i+1], bits[i])
		} else {
			p[i] = p[i+1]
		}
	}
	for i := n - 1; i >= 0; i-- {
		if bound.Bit(i) == 0 {
			l := bd.Sub(bd.Sub(bd.One(), p[i+1]), bits[i])
			bd.MulEq(l, bits[i], Variable{})
		}
	}
}

func (bd *Builder) constrain(x, y, z Variable) {
	bd.a = append(bd.a, append(lincomb{}, x.terms...))
	bd.b = append(bd.b, append(lincomb{}, y.terms...))
	bd.c = append(bd.c, append(lincomb{}, z.terms...))
}

// Shape freezes the constraint matrices
func (bd *Builder) Shape() *Shape {
	return &Shape{
		A:        bd.a,
		B:        bd.b,
		C:        bd.c,
		NPublic:  bd.nPublic,
		NWitness: len(bd.values) - 1 - bd.nPublic,
	}
}

// Assignment splits the tracked wire values into public inputs and witness
func (bd *Builder) Assignment() (x, w []gfr.Element) {
	x = append([]gfr.Element{}, bd.values[1:1+bd.nPublic]...)
	w = append([]gfr.Element{}, bd.values[1+bd.nPublic:]...)
	return x, w
}
