// Package prover orchestrates one folding step end to end: it draws the
// challenge, folds the two accumulators, expresses every group operation of
// the fold as a coprocessor opcode and accumulates those opcodes into the
// running relaxed instance on the companion curve. Its outputs are exactly
// the assignment the in-circuit verifier consumes.
package prover

import (
	"github.com/aurora-zk/kzh-fold/accumulator"
	"github.com/aurora-zk/kzh-fold/cyclefold"
	"github.com/aurora-zk/kzh-fold/transcript"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/grumpkin"
	gfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
)

// FoldingProver holds the state of one fold of current into running
type FoldingProver struct {
	SRS      *accumulator.SRS
	Shape    *cyclefold.Shape
	Pedersen *cyclefold.PedersenParams

	Current *accumulator.Accumulator
	Running *accumulator.Accumulator

	Beta  fr.Element
	Q     bn254.G1Affine
	Final *accumulator.Accumulator
}

// CycleFoldProof is one accumulated coprocessor opcode: the fresh strict
// pair plus the cross commitment of folding it into the running instance
type CycleFoldProof struct {
	Instance *cyclefold.Instance
	Witness  *cyclefold.Witness
	ComT     grumpkin.G1Affine
	T        []gfr.Element
}

// New derives beta from the transcript and performs the fold
func New(srs *accumulator.SRS, shape *cyclefold.Shape, pp *cyclefold.PedersenParams, tr *transcript.Transcript, current, running *accumulator.Accumulator) (*FoldingProver, error) {

	q, err := accumulator.ComputeQ(srs, current, running)
	if err != nil {
		return nil, err
	}
	beta := accumulator.Challenge(tr, &current.Instance, &running.Instance, &q)

	final, _, err := accumulator.Prove(srs, beta, current, running)
	if err != nil {
		return nil, err
	}

	return &FoldingProver{
		SRS:      srs,
		Shape:    shape,
		Pedersen: pp,
		Current:  current,
		Running:  running,
		Beta:     beta,
		Q:        q,
		Final:    final,
	}, nil
}

// EBlend is the affine combination of the two error commitments, before the
// cross term is added
func (p *FoldingProver) EBlend() bn254.G1Affine {
	op := p.AuxiliaryInputE1()
	return op.GOut
}

// AuxiliaryInputC is the opcode folding the polynomial commitments
func (p *FoldingProver) AuxiliaryInputC() *cyclefold.SecondaryCircuit {
	return &cyclefold.SecondaryCircuit{
		G1:   p.Running.Instance.C,
		G2:   p.Current.Instance.C,
		GOut: p.Final.Instance.C,
		R:    p.Beta,
	}
}

// AuxiliaryInputT is the opcode folding the tree commitments
func (p *FoldingProver) AuxiliaryInputT() *cyclefold.SecondaryCircuit {
	return &cyclefold.SecondaryCircuit{
		G1:   p.Running.Instance.T,
		G2:   p.Current.Instance.T,
		GOut: p.Final.Instance.T,
		R:    p.Beta,
	}
}

// AuxiliaryInputE1 blends the error commitments
func (p *FoldingProver) AuxiliaryInputE1() *cyclefold.SecondaryCircuit {
	op := &cyclefold.SecondaryCircuit{
		G1: p.Running.Instance.E,
		G2: p.Current.Instance.E,
		R:  p.Beta,
	}
	op.GOut = op.Result()
	return op
}

// AuxiliaryInputE2 adds the scaled cross term on top of the blend. The
// opcode scalar is the already-multiplied beta*(1-beta) so the companion
// circuit never forms the product itself.
func (p *FoldingProver) AuxiliaryInputE2() *cyclefold.SecondaryCircuit {
	blend := p.AuxiliaryInputE1()

	var s fr.Element
	s.SetOne().Sub(&s, &p.Beta).Mul(&s, &p.Beta)

	return &cyclefold.SecondaryCircuit{
		G1:   blend.GOut,
		G2:   p.Q,
		GOut: p.Final.Instance.E,
		R:    s,
		Flag: true,
	}
}

// CycleFoldProofs synthesizes the four opcodes of this fold and accumulates
// them into the running relaxed pair, in order C, T, E1, E2 with weights
// beta^1 through beta^4. The powers are taken in the companion scalar field,
// which is where the in-circuit verifier recomputes them.
func (p *FoldingProver) CycleFoldProofs(runIns *cyclefold.RelaxedInstance, runWit *cyclefold.RelaxedWitness) ([]CycleFoldProof, *cyclefold.RelaxedInstance, *cyclefold.RelaxedWitness, error) {

	ops := []*cyclefold.SecondaryCircuit{
		p.AuxiliaryInputC(),
		p.AuxiliaryInputT(),
		p.AuxiliaryInputE1(),
		p.AuxiliaryInputE2(),
	}

	betaG := cyclefold.FrToGFr(&p.Beta)
	var weight gfr.Element
	weight.SetOne()

	proofs := make([]CycleFoldProof, 0, len(ops))
	for _, op := range ops {
		ins, wit, err := cyclefold.Synthesize(p.Pedersen, op)
		if err != nil {
			return nil, nil, nil, err
		}
		t, comT, err := p.Shape.CommitT(p.Pedersen, runIns, runWit, ins, wit)
		if err != nil {
			return nil, nil, nil, err
		}

		weight.Mul(&weight, &betaG)
		runIns = cyclefold.Fold(weight, runIns, ins, &comT)
		runWit = cyclefold.FoldWitness(weight, runWit, wit, t)

		proofs = append(proofs, CycleFoldProof{Instance: ins, Witness: wit, ComT: comT, T: t})
	}

	return proofs, runIns, runWit, nil
}

// IsSatisfied checks every obligation of the fold: both inputs and the
// result decide, and each opcode relation holds
func (p *FoldingProver) IsSatisfied() (bool, error) {
	for _, acc := range []*accumulator.Accumulator{p.Current, p.Running, p.Final} {
		ok, err := accumulator.Decide(p.SRS, acc)
		if err != nil || !ok {
			return false, err
		}
	}

	for _, op := range []*cyclefold.SecondaryCircuit{
		p.AuxiliaryInputC(),
		p.AuxiliaryInputT(),
		p.AuxiliaryInputE1(),
		p.AuxiliaryInputE2(),
	} {
		expected := op.Result()
		if !expected.Equal(&op.GOut) {
			return false, nil
		}
	}

	return true, nil
}
