package transcript

import (
	"math/big"
	"testing"

	"github.com/aurora-zk/kzh-fold/common"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeDeterminism(t *testing.T) {
	scalars := common.RandomFrVector(7)

	var g bn254.G1Affine
	_, _, g1Gen, _ := bn254.Generators()
	var s fr.Element
	_, err := s.SetRandom()
	require.NoError(t, err)
	g.ScalarMultiplication(&g1Gen, s.BigInt(new(big.Int)))

	run := func() []fr.Element {
		tr := New()
		tr.AppendScalars("scalars", scalars)
		tr.AppendPoint("point", &g)
		return tr.ChallengeVector("challenges", 3)
	}

	assert.Equal(t, run(), run())
}

func TestChallengeSensitivity(t *testing.T) {
	a := common.RandomFrVector(3)
	b := append([]fr.Element{}, a...)
	b[1].SetUint64(999)

	trA, trB := New(), New()
	trA.AppendScalars("v", a)
	trB.AppendScalars("v", b)

	assert.NotEqual(t, trA.ChallengeScalar("c"), trB.ChallengeScalar("c"))
}

func TestChainedChallengesDiffer(t *testing.T) {
	tr := New()
	tr.AppendScalars("v", common.RandomFrVector(2))
	cs := tr.ChallengeVector("c", 2)
	assert.NotEqual(t, cs[0], cs[1])
}
