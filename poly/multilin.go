package poly

import (
	"fmt"

	"github.com/aurora-zk/kzh-fold/common"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// MultiLin tracks the values of a (dense i.e. not sparse) multilinear polynomial
// over the boolean hypercube. Coordinate 0 varies slowest: the index bits, MSB
// first, select the coordinates in order.
type MultiLin []fr.Element

func (m MultiLin) String() string {
	return fmt.Sprintf("%v", common.FrSliceToString(m))
}

// Fold folds the table on its first coordinate using the given value r
func (m *MultiLin) Fold(r fr.Element) {
	mid := len(*m) / 2
	m.FoldChunk(r, 0, mid)
	*m = (*m)[:mid]
}

// FoldChunk folds one part of the table
func (m *MultiLin) FoldChunk(r fr.Element, start, stop int) {
	mid := len(*m) / 2
	bottom, top := (*m)[:mid], (*m)[mid:]
	for i := start; i < stop; i++ {
		// updating bookkeeping table
		// table[i] <- table[i] + r (table[i + mid] - table[i])
		top[i].Sub(&top[i], &bottom[i])
		top[i].Mul(&top[i], &r)
		bottom[i].Add(&bottom[i], &top[i])
	}
}

// DeepCopy creates a deep copy of a bookkeeping table.
// Both multilinear interpolation and folding change the underlying array,
// so doing both requires a deep copy of the bookkeeping table.
func (m MultiLin) DeepCopy() MultiLin {
	tableDeepCopy := make([]fr.Element, len(m))
	copy(tableDeepCopy, m)
	return tableDeepCopy
}

// Evaluate takes a dense bookkeeping table, deep copies it, folds it along the
// variables on which the table depends by substituting the corresponding coordinate
// from coordinates. After folding, bkCopy is reduced to a one item slice
// containing the evaluation of the original bkt at coordinates. This is returned.
func (m MultiLin) Evaluate(coordinates []fr.Element) fr.Element {
	bkCopy := m.DeepCopy()
	for _, r := range coordinates {
		bkCopy.Fold(r)
	}

	return bkCopy[0]
}

// Row returns the sub-table obtained by fixing the first coordinates to the
// boolean decomposition of i. rowLen must divide the table length.
func (m MultiLin) Row(i, rowLen int) MultiLin {
	return MultiLin(m[i*rowLen : (i+1)*rowLen])
}

// ScalarMul multiplies every entry by r, in place
func (m MultiLin) ScalarMul(r fr.Element) {
	common.Parallelize(len(m), func(start, stop int) {
		for i := start; i < stop; i++ {
			m[i].Mul(&m[i], &r)
		}
	})
}

// Sub returns the entry-wise difference a - b
func Sub(a, b MultiLin) (MultiLin, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("poly: size mismatch %v != %v", len(a), len(b))
	}
	res := make(MultiLin, len(a))
	common.Parallelize(len(a), func(start, stop int) {
		for i := start; i < stop; i++ {
			res[i].Sub(&a[i], &b[i])
		}
	})
	return res, nil
}

// LinearCombination returns the entry-wise combination f(a[i], b[i])
func LinearCombination(a, b MultiLin, f func(fr.Element, fr.Element) fr.Element) (MultiLin, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("poly: size mismatch %v != %v", len(a), len(b))
	}
	res := make(MultiLin, len(a))
	common.Parallelize(len(a), func(start, stop int) {
		for i := start; i < stop; i++ {
			res[i] = f(a[i], b[i])
		}
	})
	return res, nil
}

// InnerProduct returns the inner product <a, b>
func InnerProduct(a, b []fr.Element) (fr.Element, error) {
	var res fr.Element
	if len(a) != len(b) {
		return res, fmt.Errorf("poly: size mismatch %v != %v", len(a), len(b))
	}
	var tmp fr.Element
	for i := range a {
		tmp.Mul(&a[i], &b[i])
		res.Add(&res, &tmp)
	}
	return res, nil
}

// Random returns a random multilinear polynomial on nVars variables
func Random(nVars int) MultiLin {
	return MultiLin(common.RandomFrVector(1 << nVars))
}
