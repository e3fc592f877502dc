// Package accumulator folds opening claims of the commitment scheme into a
// single running claim. A claim is carried as an instance over the group and
// the scalar field together with a witness holding the row commitments, the
// two equality trees and the partially evaluated polynomial. Folding takes an
// affine combination of two claims and cancels the bilinear defect with a
// cross term absorbed into the error commitment.
package accumulator

import (
	"fmt"
	"math/big"

	"github.com/aurora-zk/kzh-fold/eqtree"
	"github.com/aurora-zk/kzh-fold/kzh"
	"github.com/aurora-zk/kzh-fold/poly"
	"github.com/aurora-zk/kzh-fold/transcript"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Instance is the public part of an accumulated claim. C commits to the full
// polynomial, T to the nodes of both equality trees, and E to the error of
// the relaxed evaluation relation. X and Y locate the opening point, Z is the
// claimed evaluation.
type Instance struct {
	C bn254.G1Affine
	T bn254.G1Affine
	E bn254.G1Affine

	X []fr.Element
	Y []fr.Element
	Z fr.Element
}

// Witness is the private part of an accumulated claim
type Witness struct {
	D     []bn254.G1Affine
	TreeX *eqtree.Tree
	TreeY *eqtree.Tree
	FStar poly.MultiLin
}

// Accumulator pairs an instance with its witness
type Accumulator struct {
	Instance Instance
	Witness  Witness
}

// SpongeElements flattens the instance into scalars for transcript
// absorption. Group elements contribute both coordinates reduced into the
// scalar field, the identity contributes (0, 0).
func (ins *Instance) SpongeElements() []fr.Element {
	res := make([]fr.Element, 0, 6+len(ins.X)+len(ins.Y)+1)
	for _, p := range []*bn254.G1Affine{&ins.C, &ins.T, &ins.E} {
		px, py := transcript.PointToScalars(p)
		res = append(res, px, py)
	}
	res = append(res, ins.X...)
	res = append(res, ins.Y...)
	res = append(res, ins.Z)
	return res
}

// FromFreshProof converts a verified opening proof into an accumulator. The
// error commitment carries the residual of the evaluation relation, which is
// the identity for an honestly generated proof.
func FromFreshProof(srs *SRS, com *kzh.Commitment, proof *kzh.OpeningProof, x, y []fr.Element, z fr.Element) (*Accumulator, error) {

	if len(x) != srs.PCS.XLength() || len(y) != srs.PCS.YLength() {
		return nil, fmt.Errorf("accumulator: opening point (%v, %v) does not match the srs dimensions", len(x), len(y))
	}
	if len(proof.D) != srs.PCS.DegreeX || len(proof.FStar) != srs.PCS.DegreeY {
		return nil, fmt.Errorf("accumulator: proof dimensions (%v, %v) do not match the srs", len(proof.D), len(proof.FStar))
	}

	treeX := eqtree.New(x)
	treeY := eqtree.New(y)

	var t bn254.G1Affine
	if _, err := t.MultiExp(
		append(append([]bn254.G1Affine{}, srs.Kx...), srs.Ky...),
		append(append([]fr.Element{}, treeX.Nodes...), treeY.Nodes...),
		ecc.MultiExpConfig{},
	); err != nil {
		return nil, err
	}

	acc := &Accumulator{
		Instance: Instance{
			C: com.C,
			T: t,
			X: append([]fr.Element{}, x...),
			Y: append([]fr.Element{}, y...),
			Z: z,
		},
		Witness: Witness{
			D:     append([]bn254.G1Affine{}, proof.D...),
			TreeX: treeX,
			TreeY: treeY,
			FStar: proof.FStar.DeepCopy(),
		},
	}

	// E is the residual of the scalar and row checks. Both vanish for an
	// honest proof but are carried explicitly so that folded accumulators
	// remain decidable.
	d3, err := dec3(srs, acc)
	if err != nil {
		return nil, err
	}
	d4, err := dec4(srs, acc)
	if err != nil {
		return nil, err
	}
	acc.Instance.E.Add(&d3, &d4)

	return acc, nil
}

// Challenge derives the folding challenge by absorbing both instances and
// the cross term into the transcript
func Challenge(tr *transcript.Transcript, current, running *Instance, q *bn254.G1Affine) fr.Element {
	tr.AppendScalars("acc-current", current.SpongeElements())
	tr.AppendScalars("acc-running", running.SpongeElements())
	tr.AppendPoint("acc-cross", q)
	return tr.ChallengeScalar("acc-beta")
}

// combinePoints returns beta * a + (1 - beta) * b
func combinePoints(beta *fr.Element, a, b *bn254.G1Affine) bn254.G1Affine {
	var oneMinus fr.Element
	oneMinus.SetOne().Sub(&oneMinus, beta)

	var left, right bn254.G1Affine
	left.ScalarMultiplication(a, beta.BigInt(new(big.Int)))
	right.ScalarMultiplication(b, oneMinus.BigInt(new(big.Int)))
	left.Add(&left, &right)
	return left
}

// combineScalars returns beta * a + (1 - beta) * b
func combineScalars(beta, a, b *fr.Element) fr.Element {
	var oneMinus, left, right fr.Element
	oneMinus.SetOne().Sub(&oneMinus, beta)
	left.Mul(beta, a)
	right.Mul(&oneMinus, b)
	left.Add(&left, &right)
	return left
}
