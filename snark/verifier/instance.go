package verifier

import (
	"github.com/aurora-zk/kzh-fold/accumulator"
	"github.com/aurora-zk/kzh-fold/cyclefold"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/sw_grumpkin"
	"github.com/consensys/gnark/std/math/emulated"
)

// NonNative is a Grumpkin-scalar-field element emulated over the BN254
// scalar field. BN254 point coordinates and the coprocessor's public inputs
// live in this field.
type NonNative = emulated.Element[sw_grumpkin.ScalarField]

// PointVar is a BN254 point as a pair of non-native coordinates,
// (0, 0) for the identity
type PointVar struct {
	X, Y NonNative
}

// AccInstanceVar is an accumulator instance inside the circuit: commitments
// as non-native points, the opening point and claimed value native
type AccInstanceVar struct {
	C, T, E PointVar

	X []frontend.Variable
	Y []frontend.Variable
	Z frontend.Variable
}

// OpcodeVar is one committed coprocessor instance
type OpcodeVar struct {
	ComW sw_grumpkin.G1Affine
	IO   [cyclefold.NumPublicInputs]NonNative
}

// OvaVar is a relaxed running instance of the coprocessor
type OvaVar struct {
	ComW, ComE sw_grumpkin.G1Affine
	X          [cyclefold.NumPublicInputs]NonNative
	U          NonNative
}

func NewPointVar(p *bn254.G1Affine) PointVar {
	x := cyclefold.FpToGFr(&p.X)
	y := cyclefold.FpToGFr(&p.Y)
	return PointVar{
		X: emulated.ValueOf[sw_grumpkin.ScalarField](x),
		Y: emulated.ValueOf[sw_grumpkin.ScalarField](y),
	}
}

func NewAccInstanceVar(ins *accumulator.Instance) AccInstanceVar {
	res := AccInstanceVar{
		C: NewPointVar(&ins.C),
		T: NewPointVar(&ins.T),
		E: NewPointVar(&ins.E),
		X: make([]frontend.Variable, len(ins.X)),
		Y: make([]frontend.Variable, len(ins.Y)),
		Z: ins.Z,
	}
	for i := range ins.X {
		res.X[i] = ins.X[i]
	}
	for i := range ins.Y {
		res.Y[i] = ins.Y[i]
	}
	return res
}

func NewOpcodeVar(ins *cyclefold.Instance) OpcodeVar {
	res := OpcodeVar{ComW: sw_grumpkin.NewG1Affine(ins.ComW)}
	for i := range res.IO {
		res.IO[i] = emulated.ValueOf[sw_grumpkin.ScalarField](ins.X[i])
	}
	return res
}

func NewOvaVar(ins *cyclefold.RelaxedInstance) OvaVar {
	res := OvaVar{
		ComW: sw_grumpkin.NewG1Affine(ins.ComW),
		ComE: sw_grumpkin.NewG1Affine(ins.ComE),
		U:    emulated.ValueOf[sw_grumpkin.ScalarField](ins.U),
	}
	for i := range res.X {
		res.X[i] = emulated.ValueOf[sw_grumpkin.ScalarField](ins.X[i])
	}
	return res
}
