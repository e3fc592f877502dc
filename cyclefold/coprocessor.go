package cyclefold

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	gfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
)

// Public input layout of the secondary circuit. Points are affine pairs
// with (0, 0) for the identity.
const (
	IOFlag = iota
	IOR
	IOG1X
	IOG1Y
	IOG2X
	IOG2Y
	IOOutX
	IOOutY
	NumPublicInputs
)

// SecondaryCircuit is one group operation delegated to the coprocessor.
// With Flag unset it checks GOut = R*G1 + (1-R)*G2, the affine combination
// the folding engine applies to C, T and the blended error term. With Flag
// set it checks GOut = G1 + R*G2, which absorbs the scaled cross term into
// the error commitment; the caller supplies the already-multiplied scalar
// so that no scalar-field product is formed in the wrong field. R is always
// a BN254 scalar, below the Grumpkin scalar modulus, so the ladder over its
// bits reproduces the native scalar multiplication exactly.
type SecondaryCircuit struct {
	G1   bn254.G1Affine
	G2   bn254.G1Affine
	GOut bn254.G1Affine
	R    fr.Element
	Flag bool
}

// Result computes the relation natively
func (op *SecondaryCircuit) Result() bn254.G1Affine {
	var s fr.Element

	var res, tmp bn254.G1Affine
	if op.Flag {
		// G1 + R*G2
		tmp.ScalarMultiplication(&op.G2, op.R.BigInt(new(big.Int)))
		res.Add(&op.G1, &tmp)
	} else {
		// R*G1 + (1-R)*G2
		res.ScalarMultiplication(&op.G1, op.R.BigInt(new(big.Int)))
		s.SetOne().Sub(&s, &op.R)
		tmp.ScalarMultiplication(&op.G2, s.BigInt(new(big.Int)))
		res.Add(&res, &tmp)
	}
	return res
}

// synthesize builds the constraint system of the unified relation together
// with a satisfying assignment for op. Both branches compile to the same
// arithmetic, selected by the flag:
//
//	A   = select(flag, g2, g1 - g2)
//	B   = select(flag, g1, g2)
//	out = B + r*A
//
// since r*g1 + (1-r)*g2 = g2 + r*(g1 - g2).
func synthesize(op *SecondaryCircuit) *Builder {
	bd := NewBuilder()

	var flagVal gfr.Element
	if op.Flag {
		flagVal.SetOne()
	}
	rVal := FrToGFr(&op.R)

	flag := bd.PublicInput(flagVal)
	r := bd.PublicInput(rVal)
	g1x := bd.PublicInput(FpToGFr(&op.G1.X))
	g1y := bd.PublicInput(FpToGFr(&op.G1.Y))
	g2x := bd.PublicInput(FpToGFr(&op.G2.X))
	g2y := bd.PublicInput(FpToGFr(&op.G2.Y))
	outx := bd.PublicInput(FpToGFr(&op.GOut.X))
	outy := bd.PublicInput(FpToGFr(&op.GOut.Y))

	bd.AssertBoolean(flag)

	p1 := liftAffine(bd, g1x, g1y, &op.G1)
	p2 := liftAffine(bd, g2x, g2y, &op.G2)

	diff := addPoints(bd, p1, negPoint(bd, p2))
	aPt := selectPoint(bd, flag, p2, diff)
	bPt := selectPoint(bd, flag, p1, p2)

	bits := bd.ToBits(r, 254)
	res := addPoints(bd, scalarMulBits(bd, bits, aPt), bPt)

	constrainAffineOutput(bd, res, outx, outy, &op.GOut)
	return bd
}

// SetupShape freezes the constraint matrices. The synthesis never branches
// on values, so any placeholder assignment yields the same shape.
func SetupShape() *Shape {
	_, _, g, _ := bn254.Generators()
	dummy := &SecondaryCircuit{G1: g, G2: g}
	dummy.GOut = dummy.Result()
	return synthesize(dummy).Shape()
}

// ParseIO recovers the opcode relation from the public inputs of a strict
// instance. The witness side, including the commitment, is not recovered.
func (ins *Instance) ParseIO() (*SecondaryCircuit, error) {
	if len(ins.X) != NumPublicInputs {
		return nil, fmt.Errorf("cyclefold: instance has %v public inputs, want %v", len(ins.X), NumPublicInputs)
	}

	op := &SecondaryCircuit{Flag: !ins.X[IOFlag].IsZero()}
	op.R.SetBigInt(ins.X[IOR].BigInt(new(big.Int)))

	op.G1.X = GFrToFp(&ins.X[IOG1X])
	op.G1.Y = GFrToFp(&ins.X[IOG1Y])
	op.G2.X = GFrToFp(&ins.X[IOG2X])
	op.G2.Y = GFrToFp(&ins.X[IOG2Y])
	op.GOut.X = GFrToFp(&ins.X[IOOutX])
	op.GOut.Y = GFrToFp(&ins.X[IOOutY])
	return op, nil
}

// Synthesize produces the committed strict instance and witness of op
func Synthesize(pp *PedersenParams, op *SecondaryCircuit) (*Instance, *Witness, error) {
	bd := synthesize(op)
	x, w := bd.Assignment()
	com, err := pp.Commit(w)
	if err != nil {
		return nil, nil, err
	}
	return &Instance{ComW: com, X: x}, &Witness{W: w}, nil
}
