package accumulator

import (
	"fmt"
	"math/big"

	"github.com/aurora-zk/kzh-fold/eqtree"
	"github.com/aurora-zk/kzh-fold/poly"
	"github.com/aurora-zk/kzh-fold/transcript"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ComputeQ derives the cross term of the fold of current into running. Every
// residual in the decision procedure is bilinear in (witness, instance), so
// folding with weights (1-beta, beta) leaves a defect of beta*(1-beta) times
// a term that depends only on the two claims, never on beta. Q commits to
// that term; the prover sends it before the challenge is drawn.
func ComputeQ(srs *SRS, current, running *Accumulator) (bn254.G1Affine, error) {
	var q bn254.G1Affine

	crossX, err := eqtree.Cross(
		running.Witness.TreeX, current.Witness.TreeX,
		running.Instance.X, current.Instance.X,
	)
	if err != nil {
		return q, err
	}
	crossY, err := eqtree.Cross(
		running.Witness.TreeY, current.Witness.TreeY,
		running.Instance.Y, current.Instance.Y,
	)
	if err != nil {
		return q, err
	}

	var qx, qy bn254.G1Affine
	if _, err := qx.MultiExp(srs.Kx, crossX.Nodes, ecc.MultiExpConfig{}); err != nil {
		return q, err
	}
	if _, err := qy.MultiExp(srs.Ky, crossY.Nodes, ecc.MultiExpConfig{}); err != nil {
		return q, err
	}

	// scalar residual cross: -KPrime * <f_run - f_cur, leavesY_run - leavesY_cur>
	deltaF, err := poly.Sub(running.Witness.FStar, current.Witness.FStar)
	if err != nil {
		return q, err
	}
	deltaLeavesY, err := poly.Sub(running.Witness.TreeY.Leaves(), current.Witness.TreeY.Leaves())
	if err != nil {
		return q, err
	}
	ip, err := poly.InnerProduct(deltaF, deltaLeavesY)
	if err != nil {
		return q, err
	}
	var q3 bn254.G1Affine
	q3.ScalarMultiplication(&srs.KPrime, ip.BigInt(new(big.Int)))
	q3.Neg(&q3)

	// row residual cross: <D_run - D_cur, leavesX_run - leavesX_cur>
	if len(running.Witness.D) != len(current.Witness.D) {
		return q, fmt.Errorf("accumulator: row commitment count mismatch %v != %v", len(running.Witness.D), len(current.Witness.D))
	}
	deltaD := make([]bn254.G1Affine, len(running.Witness.D))
	for i := range deltaD {
		deltaD[i].Sub(&running.Witness.D[i], &current.Witness.D[i])
	}
	deltaLeavesX, err := poly.Sub(running.Witness.TreeX.Leaves(), current.Witness.TreeX.Leaves())
	if err != nil {
		return q, err
	}
	var q4 bn254.G1Affine
	if _, err := q4.MultiExp(deltaD, deltaLeavesX, ecc.MultiExpConfig{}); err != nil {
		return q, err
	}

	q.Add(&qx, &qy)
	q.Add(&q, &q3)
	q.Add(&q, &q4)
	return q, nil
}

// Prove folds current into running with the challenge beta, weighting the
// current claim by (1-beta) and the running claim by beta. The returned
// accumulator satisfies Decide whenever both inputs do.
func Prove(srs *SRS, beta fr.Element, current, running *Accumulator) (*Accumulator, bn254.G1Affine, error) {

	q, err := ComputeQ(srs, current, running)
	if err != nil {
		return nil, q, err
	}

	combine := func(a, b fr.Element) fr.Element {
		return combineScalars(&beta, &a, &b)
	}

	x, err := poly.LinearCombination(running.Instance.X, current.Instance.X, combine)
	if err != nil {
		return nil, q, err
	}
	y, err := poly.LinearCombination(running.Instance.Y, current.Instance.Y, combine)
	if err != nil {
		return nil, q, err
	}

	treeX, err := eqtree.LinearCombination(running.Witness.TreeX, current.Witness.TreeX, combine)
	if err != nil {
		return nil, q, err
	}
	treeY, err := eqtree.LinearCombination(running.Witness.TreeY, current.Witness.TreeY, combine)
	if err != nil {
		return nil, q, err
	}
	fStar, err := poly.LinearCombination(running.Witness.FStar, current.Witness.FStar, combine)
	if err != nil {
		return nil, q, err
	}

	d := make([]bn254.G1Affine, len(running.Witness.D))
	for i := range d {
		d[i] = combinePoints(&beta, &running.Witness.D[i], &current.Witness.D[i])
	}

	// E picks up the cross defect on top of the affine combination
	e := combinePoints(&beta, &running.Instance.E, &current.Instance.E)
	var betaOneMinus fr.Element
	betaOneMinus.SetOne().Sub(&betaOneMinus, &beta).Mul(&betaOneMinus, &beta)
	var qScaled bn254.G1Affine
	qScaled.ScalarMultiplication(&q, betaOneMinus.BigInt(new(big.Int)))
	e.Add(&e, &qScaled)

	folded := &Accumulator{
		Instance: Instance{
			C: combinePoints(&beta, &running.Instance.C, &current.Instance.C),
			T: combinePoints(&beta, &running.Instance.T, &current.Instance.T),
			E: e,
			X: x,
			Y: y,
			Z: combineScalars(&beta, &running.Instance.Z, &current.Instance.Z),
		},
		Witness: Witness{
			D:     d,
			TreeX: treeX,
			TreeY: treeY,
			FStar: fStar,
		},
	}

	return folded, q, nil
}

// ProveWithTranscript runs the full interactive step: derive Q, draw beta
// from the transcript and fold. The verifier re-derives beta the same way.
func ProveWithTranscript(srs *SRS, tr *transcript.Transcript, current, running *Accumulator) (*Accumulator, bn254.G1Affine, fr.Element, error) {
	q, err := ComputeQ(srs, current, running)
	if err != nil {
		return nil, q, fr.Element{}, err
	}
	beta := Challenge(tr, &current.Instance, &running.Instance, &q)
	folded, _, err := Prove(srs, beta, current, running)
	return folded, q, beta, err
}
