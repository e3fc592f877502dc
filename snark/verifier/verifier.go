// Package verifier is the in-circuit side of the folding engine: a gnark
// circuit over the BN254 scalar field that replays one fold and constrains
// every group operation against the coprocessor instances accumulated on the
// companion curve. The circuit never performs a BN254 scalar multiplication
// itself; it checks that the delegated opcodes carry exactly the operands
// and scalars the fold dictates, and folds the opcode instances into the
// running relaxed instance the way the native prover does.
package verifier

import (
	"math/big"

	"github.com/aurora-zk/kzh-fold/cyclefold"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/sw_grumpkin"
	"github.com/consensys/gnark/std/math/bits"
	"github.com/consensys/gnark/std/math/emulated"
)

// scalarBits is the bit width of both moduli of the cycle
const scalarBits = 254

// Circuit verifies one folding step. Opcodes are ordered C, T, E1, E2.
type Circuit struct {
	Current AccInstanceVar
	Running AccInstanceVar
	Final   AccInstanceVar

	Q      PointVar
	Beta   frontend.Variable
	BetaNN NonNative

	Opcodes [4]OpcodeVar
	ComT    [4]sw_grumpkin.G1Affine

	OvaRunning OvaVar
	OvaFinal   OvaVar
}

// NewCircuitShape allocates the slice-valued fields for compilation
func NewCircuitShape(xLen, yLen int) *Circuit {
	shape := func() AccInstanceVar {
		return AccInstanceVar{
			X: make([]frontend.Variable, xLen),
			Y: make([]frontend.Variable, yLen),
		}
	}
	return &Circuit{Current: shape(), Running: shape(), Final: shape()}
}

// coordToNative maps a non-native coordinate to the native field by bit
// recomposition, the in-circuit image of the mod-r reduction the native
// transcript applies to point coordinates
func coordToNative(api frontend.API, f *emulated.Field[sw_grumpkin.ScalarField], e *NonNative) frontend.Variable {
	bs := f.ToBits(f.Reduce(e))
	return bits.FromBinary(api, bs)
}

// assertBitsCanonical asserts that a little-endian decomposition of a
// native scalar encodes a value below the native modulus. ToBinary only
// constrains booleanity and the recomposition, which leaves the witness
// free to encode x + r when x < 2^254 - r; the constant-bound comparison
// pins the canonical string. Same gadget as the frontend's
// MustBeLessOrEqCst, against modulus - 1.
func assertBitsCanonical(api frontend.API, bs []frontend.Variable) {
	bound := new(big.Int).Sub(api.Compiler().Field(), big.NewInt(1))
	n := len(bs)
	p := make([]frontend.Variable, n+1)
	p[n] = frontend.Variable(1)
	for i := n - 1; i >= 0; i-- {
		if bound.Bit(i) == 1 {
			p[i] = api.Mul(p[i+1], bs[i])
		} else {
			p[i] = p[i+1]
		}
	}
	for i := n - 1; i >= 0; i-- {
		if bound.Bit(i) == 0 {
			l := api.Sub(1, p[i+1], bs[i])
			api.AssertIsEqual(api.Mul(l, bs[i]), 0)
		}
	}
}

// assertScalarMatches ties a native scalar to a non-native element by
// comparing canonical bit decompositions. Both values are below the native
// modulus, so the decompositions agree bit for bit.
func assertScalarMatches(api frontend.API, f *emulated.Field[sw_grumpkin.ScalarField], native frontend.Variable, nn *NonNative) {
	nnBits := f.ToBits(f.Reduce(nn))
	nativeBits := api.ToBinary(native, scalarBits)
	assertBitsCanonical(api, nativeBits)
	for i := range nnBits {
		if i < scalarBits {
			api.AssertIsEqual(nnBits[i], nativeBits[i])
		} else {
			api.AssertIsEqual(nnBits[i], 0)
		}
	}
}

// spongeElements mirrors the native Instance.SpongeElements
func (ins *AccInstanceVar) spongeElements(api frontend.API, f *emulated.Field[sw_grumpkin.ScalarField]) []frontend.Variable {
	res := make([]frontend.Variable, 0, 6+len(ins.X)+len(ins.Y)+1)
	for _, p := range []*PointVar{&ins.C, &ins.T, &ins.E} {
		res = append(res, coordToNative(api, f, &p.X), coordToNative(api, f, &p.Y))
	}
	res = append(res, ins.X...)
	res = append(res, ins.Y...)
	res = append(res, ins.Z)
	return res
}

// assertPointsEqual compares two non-native points coordinate-wise
func assertPointsEqual(f *emulated.Field[sw_grumpkin.ScalarField], p, q *PointVar) {
	f.AssertIsEqual(&p.X, &q.X)
	f.AssertIsEqual(&p.Y, &q.Y)
}

// ioPoint reads one of the opcode's point operands
func (op *OpcodeVar) ioPoint(xIdx int) *PointVar {
	return &PointVar{X: op.IO[xIdx], Y: op.IO[xIdx+1]}
}

func (c *Circuit) Define(api frontend.API) error {
	f, err := emulated.NewField[sw_grumpkin.ScalarField](api)
	if err != nil {
		return err
	}
	curve, err := sw_grumpkin.NewCurve(api)
	if err != nil {
		return err
	}
	tr, err := newTranscript(api)
	if err != nil {
		return err
	}

	// replay the Fiat-Shamir challenge
	tr.append(c.Current.spongeElements(api, f)...)
	tr.append(c.Running.spongeElements(api, f)...)
	tr.append(coordToNative(api, f, &c.Q.X), coordToNative(api, f, &c.Q.Y))
	api.AssertIsEqual(tr.challenge(), c.Beta)
	assertScalarMatches(api, f, c.Beta, &c.BetaNN)

	// opcode flags: the first three blend, the last one adds the cross term
	for i := 0; i < 3; i++ {
		f.AssertIsEqual(&c.Opcodes[i].IO[cyclefold.IOFlag], f.Zero())
	}
	f.AssertIsEqual(&c.Opcodes[3].IO[cyclefold.IOFlag], f.One())

	// opcode scalars: beta three times, then the pre-multiplied beta*(1-beta)
	for i := 0; i < 3; i++ {
		assertScalarMatches(api, f, c.Beta, &c.Opcodes[i].IO[cyclefold.IOR])
	}
	crossScalar := api.Mul(c.Beta, api.Sub(1, c.Beta))
	assertScalarMatches(api, f, crossScalar, &c.Opcodes[3].IO[cyclefold.IOR])

	// opcode operands: C and T blend running into current and land on the
	// folded instance
	for i, sel := range []func(*AccInstanceVar) *PointVar{
		func(a *AccInstanceVar) *PointVar { return &a.C },
		func(a *AccInstanceVar) *PointVar { return &a.T },
	} {
		assertPointsEqual(f, c.Opcodes[i].ioPoint(cyclefold.IOG1X), sel(&c.Running))
		assertPointsEqual(f, c.Opcodes[i].ioPoint(cyclefold.IOG2X), sel(&c.Current))
		assertPointsEqual(f, c.Opcodes[i].ioPoint(cyclefold.IOOutX), sel(&c.Final))
	}

	// the error path: E1 blends the error commitments, its output feeds E2,
	// which adds the scaled cross term and lands on the folded error
	assertPointsEqual(f, c.Opcodes[2].ioPoint(cyclefold.IOG1X), &c.Running.E)
	assertPointsEqual(f, c.Opcodes[2].ioPoint(cyclefold.IOG2X), &c.Current.E)
	assertPointsEqual(f, c.Opcodes[2].ioPoint(cyclefold.IOOutX), c.Opcodes[3].ioPoint(cyclefold.IOG1X))
	assertPointsEqual(f, c.Opcodes[3].ioPoint(cyclefold.IOG2X), &c.Q)
	assertPointsEqual(f, c.Opcodes[3].ioPoint(cyclefold.IOOutX), &c.Final.E)

	// scalar-side folding is checked natively
	oneMinus := api.Sub(1, c.Beta)
	for i := range c.Final.X {
		blend := api.Add(api.Mul(c.Beta, c.Running.X[i]), api.Mul(oneMinus, c.Current.X[i]))
		api.AssertIsEqual(c.Final.X[i], blend)
	}
	for i := range c.Final.Y {
		blend := api.Add(api.Mul(c.Beta, c.Running.Y[i]), api.Mul(oneMinus, c.Current.Y[i]))
		api.AssertIsEqual(c.Final.Y[i], blend)
	}
	api.AssertIsEqual(c.Final.Z, api.Add(api.Mul(c.Beta, c.Running.Z), api.Mul(oneMinus, c.Current.Z)))

	// fold the four opcode instances into the running relaxed instance with
	// weights beta^1..beta^4, then pin the result
	run := c.OvaRunning
	weight := &c.BetaNN
	for i := range c.Opcodes {
		if i > 0 {
			weight = f.Mul(weight, &c.BetaNN)
		}

		run.ComW = *curve.AddUnified(&run.ComW, curve.ScalarMul(&c.Opcodes[i].ComW, weight))
		run.ComE = *curve.AddUnified(&run.ComE, curve.ScalarMul(&c.ComT[i], weight))
		for j := range run.X {
			run.X[j] = *f.Add(&run.X[j], f.Mul(weight, &c.Opcodes[i].IO[j]))
		}
		run.U = *f.Add(&run.U, weight)
	}

	curve.AssertIsEqual(&run.ComW, &c.OvaFinal.ComW)
	curve.AssertIsEqual(&run.ComE, &c.OvaFinal.ComE)
	for j := range run.X {
		f.AssertIsEqual(&run.X[j], &c.OvaFinal.X[j])
	}
	f.AssertIsEqual(&run.U, &c.OvaFinal.U)

	return nil
}
