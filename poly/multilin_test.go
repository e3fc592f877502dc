package poly

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	// [0, 1, 2, 3]
	bkt := make(MultiLin, 4)
	for i := 0; i < 4; i++ {
		bkt[i].SetUint64(uint64(i))
	}

	var r fr.Element
	r.SetUint64(uint64(5))

	// Folding on 5 should yield [10, 11]
	bkt.Fold(r)

	var ten, eleven fr.Element
	ten.SetUint64(uint64(10))
	eleven.SetUint64(uint64(11))

	assert.Equal(t, ten, bkt[0], "Mismatch on 0")
	assert.Equal(t, eleven, bkt[1], "Mismatch on 1")
}

func TestFoldChunk(t *testing.T) {
	// [0, 1, 2, 3]
	bkt := make(MultiLin, 4)
	for i := 0; i < 4; i++ {
		bkt[i].SetUint64(uint64(i))
	}

	var r fr.Element
	r.SetUint64(uint64(5))

	bktBis := append(MultiLin{}, bkt...)

	// Folding on 5 should yield [10, 11]
	bkt.Fold(r)
	// It should yield the same result
	bktBis.FoldChunk(r, 0, 1)
	bktBis.FoldChunk(r, 1, 2)
	bktBis = bktBis[:2]

	assert.Equal(t, bkt, bktBis)
}

func TestRowEvaluation(t *testing.T) {
	// a table on 4 variables, rows of length 4 indexed by the first 2
	m := Random(4)

	var zero, one fr.Element
	one.SetOne()

	// fixing the first two coordinates to the bits of i must select row i
	points := [][2]fr.Element{{zero, zero}, {zero, one}, {one, zero}, {one, one}}
	for i, p := range points {
		folded := m.DeepCopy()
		folded.Fold(p[0])
		folded.Fold(p[1])
		assert.Equal(t, MultiLin(folded), m.Row(i, 4), "row %v", i)
	}
}

func TestLinearCombination(t *testing.T) {
	a, b := Random(3), Random(3)
	var beta fr.Element
	beta.SetUint64(42)

	combined, err := LinearCombination(a, b, func(x, y fr.Element) fr.Element {
		var res, tmp fr.Element
		res.Mul(&beta, &x)
		var oneMinus fr.Element
		oneMinus.SetOne()
		oneMinus.Sub(&oneMinus, &beta)
		tmp.Mul(&oneMinus, &y)
		res.Add(&res, &tmp)
		return res
	})
	require.NoError(t, err)

	// evaluation commutes with a pointwise affine combination
	point := []fr.Element{a[0], b[1], a[2]}
	got := combined.Evaluate(point)

	var expected, tmp, oneMinus fr.Element
	va, vb := a.Evaluate(point), b.Evaluate(point)
	expected.Mul(&beta, &va)
	oneMinus.SetOne()
	oneMinus.Sub(&oneMinus, &beta)
	tmp.Mul(&oneMinus, &vb)
	expected.Add(&expected, &tmp)

	assert.Equal(t, expected, got)

	_, err = LinearCombination(Random(2), Random(3), func(x, y fr.Element) fr.Element { return x })
	require.Error(t, err)
}
