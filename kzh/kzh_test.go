package kzh

import (
	"math/big"
	"testing"

	"github.com/aurora-zk/kzh-fold/common"
	"github.com/aurora-zk/kzh-fold/poly"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupShape(t *testing.T) {
	srs, err := Setup(4, 8, []byte("kzh test srs"))
	require.NoError(t, err)

	assert.Equal(t, 2, srs.XLength())
	assert.Equal(t, 3, srs.YLength())
	assert.Len(t, srs.MatrixH, 4)
	assert.Len(t, srs.MatrixH[0], 8)
	assert.Len(t, srs.VecH, 8)
	assert.Len(t, srs.VecV, 4)

	// e(H[i][j], V[k]) = e(H[k][j], V[i]): same G_j, trapdoors commute
	p1, err := bn254.Pair([]bn254.G1Affine{srs.MatrixH[1][2]}, []bn254.G2Affine{srs.VecV[3]})
	require.NoError(t, err)
	p2, err := bn254.Pair([]bn254.G1Affine{srs.MatrixH[3][2]}, []bn254.G2Affine{srs.VecV[1]})
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	// determinism
	srsBis, err := Setup(4, 8, []byte("kzh test srs"))
	require.NoError(t, err)
	assert.Equal(t, srs.VPrime, srsBis.VPrime)
	assert.Equal(t, srs.MatrixH[2][5], srsBis.MatrixH[2][5])
}

func TestEndToEnd(t *testing.T) {
	srs, err := Setup(8, 32, []byte("kzh end to end"))
	require.NoError(t, err)

	p := poly.Random(srs.XLength() + srs.YLength())

	x := common.RandomFrVector(srs.XLength())
	y := common.RandomFrVector(srs.YLength())
	point := append(append([]fr.Element{}, x...), y...)
	z := p.Evaluate(point)

	com, err := Commit(srs, p)
	require.NoError(t, err)

	proof, err := Open(srs, p, com, x)
	require.NoError(t, err)

	assert.True(t, Verify(srs, com, proof, x, y, &z))

	// a wrong claimed value must not verify
	var zBad fr.Element
	zBad.Add(&z, &z)
	zBad.Add(&zBad, &z)
	assert.False(t, Verify(srs, com, proof, x, y, &zBad))
}

func TestHomomorphism(t *testing.T) {
	srs, err := Setup(16, 16, []byte("kzh homomorphism"))
	require.NoError(t, err)
	nVars := srs.XLength() + srs.YLength()

	f := poly.Random(nVars)
	g := poly.Random(nVars)

	comF, err := Commit(srs, f)
	require.NoError(t, err)
	comG, err := Commit(srs, g)
	require.NoError(t, err)

	var r fr.Element
	_, err = r.SetRandom()
	require.NoError(t, err)

	// p = f + r*g
	p := g.DeepCopy()
	p.ScalarMul(r)
	for i := range p {
		p[i].Add(&p[i], &f[i])
	}

	rho := common.RandomFrVector(nVars)
	x, y, err := SplitBetweenXAndY(srs.XLength(), srs.YLength(), rho)
	require.NoError(t, err)
	z := p.Evaluate(rho)

	comP, err := Commit(srs, p)
	require.NoError(t, err)
	proof, err := Open(srs, p, comP, x)
	require.NoError(t, err)

	// the verifier recombines the commitment homomorphically
	var comVerifier Commitment
	rBig := r.BigInt(new(big.Int))
	comVerifier.C.ScalarMultiplication(&comG.C, rBig)
	comVerifier.C.Add(&comVerifier.C, &comF.C)
	comVerifier.Aux = make([]bn254.G1Affine, len(comF.Aux))
	for i := range comVerifier.Aux {
		comVerifier.Aux[i].ScalarMultiplication(&comG.Aux[i], rBig)
		comVerifier.Aux[i].Add(&comVerifier.Aux[i], &comF.Aux[i])
	}

	assert.True(t, Verify(srs, &comVerifier, proof, x, y, &z))
}

func TestSplitBetweenXAndY(t *testing.T) {
	r := common.RandomFrVector(5)

	x, y, err := SplitBetweenXAndY(3, 5, r)
	require.NoError(t, err)
	assert.Len(t, x, 3)
	assert.Len(t, y, 5)

	// the 3 leading coordinates are padding
	for i := 0; i < 3; i++ {
		assert.True(t, x[i].IsZero())
	}
	assert.Equal(t, r[0], y[0])
	assert.Equal(t, r[4], y[4])

	_, _, err = SplitBetweenXAndY(2, 2, r)
	require.Error(t, err)
}
