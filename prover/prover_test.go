package prover

import (
	"testing"

	"github.com/aurora-zk/kzh-fold/accumulator"
	"github.com/aurora-zk/kzh-fold/common"
	"github.com/aurora-zk/kzh-fold/cyclefold"
	"github.com/aurora-zk/kzh-fold/kzh"
	"github.com/aurora-zk/kzh-fold/poly"
	"github.com/aurora-zk/kzh-fold/transcript"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) (*accumulator.SRS, *cyclefold.Shape, *cyclefold.PedersenParams) {
	pcs, err := kzh.Setup(8, 8, []byte("prover-test"))
	require.NoError(t, err)
	srs, err := accumulator.Setup(pcs, []byte("prover-test-fold"))
	require.NoError(t, err)

	shape := cyclefold.SetupShape()
	pp, err := cyclefold.NewPedersenParams(max(shape.NWitness, shape.NConstraints()), []byte("prover-test-pedersen"))
	require.NoError(t, err)
	return srs, shape, pp
}

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

func newTestProver(t *testing.T) (*FoldingProver, *accumulator.SRS) {
	srs, shape, pp := testContext(t)
	current := newTestClaim(t, srs)
	running := newTestClaim(t, srs)

	p, err := New(srs, shape, pp, transcript.New(), current, running)
	require.NoError(t, err)
	return p, srs
}

func TestProverSatisfied(t *testing.T) {
	p, srs := newTestProver(t)

	ok, err := p.IsSatisfied()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = accumulator.Decide(srs, p.Final)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpcodesChain(t *testing.T) {
	p, _ := newTestProver(t)

	opC := p.AuxiliaryInputC()
	opT := p.AuxiliaryInputT()
	opE1 := p.AuxiliaryInputE1()
	opE2 := p.AuxiliaryInputE2()

	// every opcode satisfies its own relation
	for _, op := range []*cyclefold.SecondaryCircuit{opC, opT, opE1, opE2} {
		expected := op.Result()
		assert.True(t, expected.Equal(&op.GOut))
	}

	// the outputs land on the folded instance
	assert.True(t, opC.GOut.Equal(&p.Final.Instance.C))
	assert.True(t, opT.GOut.Equal(&p.Final.Instance.T))
	assert.True(t, opE2.GOut.Equal(&p.Final.Instance.E))

	// the error path chains: the blend feeds the cross-term opcode
	assert.True(t, opE1.GOut.Equal(&opE2.G1))
	assert.True(t, opE2.G2.Equal(&p.Q))

	// flags and scalars
	assert.False(t, opC.Flag)
	assert.False(t, opT.Flag)
	assert.False(t, opE1.Flag)
	assert.True(t, opE2.Flag)

	var s fr.Element
	s.SetOne().Sub(&s, &p.Beta).Mul(&s, &p.Beta)
	assert.Equal(t, p.Beta, opC.R)
	assert.Equal(t, s, opE2.R)
}

func TestCycleFoldProofs(t *testing.T) {
	p, _ := newTestProver(t)

	runIns, runWit := cyclefold.NewTrivialRelaxed(p.Shape)
	proofs, finalIns, finalWit, err := p.CycleFoldProofs(runIns, runWit)
	require.NoError(t, err)
	require.Len(t, proofs, 4)

	// each fresh opcode pair is strictly satisfying
	for _, proof := range proofs {
		require.NoError(t, p.Shape.IsSatisfied(p.Pedersen, proof.Instance, proof.Witness))
	}

	// the running pair stays satisfying after absorbing all four
	require.NoError(t, p.Shape.IsRelaxedSatisfied(p.Pedersen, finalIns, finalWit))

	// replaying the folds from the transcript data reproduces the instance
	replayIns, _ := cyclefold.NewTrivialRelaxed(p.Shape)
	betaG := cyclefold.FrToGFr(&p.Beta)
	weight := betaG
	for _, proof := range proofs {
		replayIns = cyclefold.Fold(weight, replayIns, proof.Instance, &proof.ComT)
		weight.Mul(&weight, &betaG)
	}
	assert.True(t, replayIns.ComW.Equal(&finalIns.ComW))
	assert.True(t, replayIns.ComE.Equal(&finalIns.ComE))
	assert.Equal(t, finalIns.U, replayIns.U)
}
