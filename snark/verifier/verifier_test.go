package verifier

import (
	"testing"

	"github.com/aurora-zk/kzh-fold/accumulator"
	"github.com/aurora-zk/kzh-fold/common"
	"github.com/aurora-zk/kzh-fold/cyclefold"
	"github.com/aurora-zk/kzh-fold/kzh"
	"github.com/aurora-zk/kzh-fold/poly"
	"github.com/aurora-zk/kzh-fold/prover"
	"github.com/aurora-zk/kzh-fold/transcript"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

func newTestClaim(t *testing.T, srs *accumulator.SRS) *accumulator.Accumulator {
	p := poly.Random(srs.PCS.XLength() + srs.PCS.YLength())
	com, err := kzh.Commit(srs.PCS, p)
	require.NoError(t, err)

	x := common.RandomFrVector(srs.PCS.XLength())
	y := common.RandomFrVector(srs.PCS.YLength())
	z := p.Evaluate(append(append([]fr.Element{}, x...), y...))

	proof, err := kzh.Open(srs.PCS, p, com, x)
	require.NoError(t, err)

	acc, err := accumulator.FromFreshProof(srs, com, proof, x, y, z)
	require.NoError(t, err)
	return acc
}

func newTestFold(t *testing.T) (*prover.FoldingProver, []prover.CycleFoldProof, *cyclefold.RelaxedInstance, *cyclefold.RelaxedInstance) {
	pcs, err := kzh.Setup(4, 4, []byte("verifier-test"))
	require.NoError(t, err)
	srs, err := accumulator.Setup(pcs, []byte("verifier-test-fold"))
	require.NoError(t, err)

	shape := cyclefold.SetupShape()
	pp, err := cyclefold.NewPedersenParams(max(shape.NWitness, shape.NConstraints()), []byte("verifier-test-pedersen"))
	require.NoError(t, err)

	current := newTestClaim(t, srs)
	running := newTestClaim(t, srs)

	p, err := prover.New(srs, shape, pp, transcript.New(), current, running)
	require.NoError(t, err)

	ovaRunning, ovaRunningWit := cyclefold.NewTrivialRelaxed(shape)
	proofs, ovaFinal, _, err := p.CycleFoldProofs(ovaRunning, ovaRunningWit)
	require.NoError(t, err)

	trivial, _ := cyclefold.NewTrivialRelaxed(shape)
	return p, proofs, trivial, ovaFinal
}

func TestCircuitSolved(t *testing.T) {
	p, proofs, ovaRunning, ovaFinal := newTestFold(t)

	assignment, err := NewAssignment(p, proofs, ovaRunning, ovaFinal)
	require.NoError(t, err)

	circuit := NewCircuitShape(p.SRS.PCS.XLength(), p.SRS.PCS.YLength())
	require.NoError(t, test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
}

// TestEndToEndSixteenBySixteen runs the whole pipeline over a 16x16
// commitment matrix: two fresh opening claims, one fold, the native
// decision procedure, the coprocessor accumulation and the circuit replay.
func TestEndToEndSixteenBySixteen(t *testing.T) {
	pcs, err := kzh.Setup(16, 16, []byte("e2e-test"))
	require.NoError(t, err)
	srs, err := accumulator.Setup(pcs, []byte("e2e-test-fold"))
	require.NoError(t, err)

	shape := cyclefold.SetupShape()
	pp, err := cyclefold.NewPedersenParams(max(shape.NWitness, shape.NConstraints()), []byte("e2e-test-pedersen"))
	require.NoError(t, err)

	current := newTestClaim(t, srs)
	running := newTestClaim(t, srs)

	p, err := prover.New(srs, shape, pp, transcript.New(), current, running)
	require.NoError(t, err)

	ok, err := accumulator.Decide(srs, p.Final)
	require.NoError(t, err)
	require.True(t, ok)

	// the folded evaluation claim is the beta-blend of the two claims
	var want, tmp fr.Element
	want.Mul(&p.Beta, &running.Instance.Z)
	tmp.SetOne().Sub(&tmp, &p.Beta)
	tmp.Mul(&tmp, &current.Instance.Z)
	want.Add(&want, &tmp)
	require.True(t, want.Equal(&p.Final.Instance.Z))

	ovaRunning, ovaRunningWit := cyclefold.NewTrivialRelaxed(shape)
	proofs, ovaFinal, ovaFinalWit, err := p.CycleFoldProofs(ovaRunning, ovaRunningWit)
	require.NoError(t, err)
	require.NoError(t, shape.IsRelaxedSatisfied(pp, ovaFinal, ovaFinalWit))

	trivial, _ := cyclefold.NewTrivialRelaxed(shape)
	assignment, err := NewAssignment(p, proofs, trivial, ovaFinal)
	require.NoError(t, err)

	circuit := NewCircuitShape(srs.PCS.XLength(), srs.PCS.YLength())
	require.NoError(t, test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
}

func TestCircuitRejectsWrongChallenge(t *testing.T) {
	p, proofs, ovaRunning, ovaFinal := newTestFold(t)

	assignment, err := NewAssignment(p, proofs, ovaRunning, ovaFinal)
	require.NoError(t, err)

	var one fr.Element
	one.SetOne()
	var wrong fr.Element
	wrong.Add(&p.Beta, &one)
	assignment.Beta = wrong

	circuit := NewCircuitShape(p.SRS.PCS.XLength(), p.SRS.PCS.YLength())
	require.Error(t, test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
}

func TestCircuitRejectsTamperedOpcode(t *testing.T) {
	p, proofs, ovaRunning, ovaFinal := newTestFold(t)

	assignment, err := NewAssignment(p, proofs, ovaRunning, ovaFinal)
	require.NoError(t, err)

	// swap the operands of the commitment opcode
	assignment.Opcodes[0].IO[cyclefold.IOG1X], assignment.Opcodes[0].IO[cyclefold.IOG2X] =
		assignment.Opcodes[0].IO[cyclefold.IOG2X], assignment.Opcodes[0].IO[cyclefold.IOG1X]

	circuit := NewCircuitShape(p.SRS.PCS.XLength(), p.SRS.PCS.YLength())
	require.Error(t, test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
}
