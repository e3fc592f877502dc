package eqtree

import (
	"fmt"

	"github.com/aurora-zk/kzh-fold/common"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Tree is a complete binary tree of equality-polynomial partial products.
// The root is 1 and the node v at depth i fans out to v*(1-x_i) and v*x_i,
// so the 2^Depth leaves are the multilinear equality-polynomial evaluations
// at x over the boolean hypercube. The input point is reversed on entry so
// that the leaf ordering matches poly.FoldedEqTable (coordinate 0 slowest).
//
// Nodes stores the levels contiguously: level i occupies
// Nodes[2^i-1 : 2^(i+1)-1], hence len(Nodes) = 2*2^Depth - 1.
type Tree struct {
	Nodes []fr.Element
	Depth int
}

// reverse returns a reversed copy of x
func reverse(x []fr.Element) []fr.Element {
	res := make([]fr.Element, len(x))
	for i := range x {
		res[i] = x[len(x)-1-i]
	}
	return res
}

// New builds the equality tree of the point x
func New(point []fr.Element) *Tree {
	x := reverse(point)
	depth := len(x)

	nodes := make([]fr.Element, 2*(1<<depth)-1)
	nodes[0].SetOne()

	var one fr.Element
	one.SetOne()

	for i := 0; i < depth; i++ {
		var oneMinusX fr.Element
		oneMinusX.Sub(&one, &x[i])
		levelStart := (1 << i) - 1
		for j := 0; j < (1 << i); j++ {
			val := nodes[levelStart+j]
			left := (2*(1<<i) - 1) + j
			right := left + (1 << i)
			nodes[left].Mul(&val, &oneMinusX)
			nodes[right].Mul(&val, &x[i])
		}
	}

	return &Tree{Nodes: nodes, Depth: depth}
}

// Difference returns the node-wise residuals of t against the point x:
// child - parent*(1-x_i) on the left, child - parent*x_i on the right.
// The result is identically zero iff t was built from exactly x.
func (t *Tree) Difference(point []fr.Element) (*Tree, error) {
	if len(point) != t.Depth {
		return nil, fmt.Errorf("eqtree: depth mismatch, tree has %v, point has %v", t.Depth, len(point))
	}

	x := reverse(point)
	depth := t.Depth
	nodes := make([]fr.Element, 2*(1<<depth)-1)

	var one fr.Element
	one.SetOne()

	for i := 0; i < depth; i++ {
		var oneMinusX fr.Element
		oneMinusX.Sub(&one, &x[i])
		levelStart := (1 << i) - 1
		for j := 0; j < (1 << i); j++ {
			val := t.Nodes[levelStart+j]
			left := (2*(1<<i) - 1) + j
			right := left + (1 << i)
			var tmp fr.Element
			tmp.Mul(&val, &oneMinusX)
			nodes[left].Sub(&t.Nodes[left], &tmp)
			tmp.Mul(&val, &x[i])
			nodes[right].Sub(&t.Nodes[right], &tmp)
		}
	}

	return &Tree{Nodes: nodes, Depth: depth}, nil
}

// IsZero reports whether every node of the tree vanishes
func (t *Tree) IsZero() bool {
	for i := range t.Nodes {
		if !t.Nodes[i].IsZero() {
			return false
		}
	}
	return true
}

// Leaves returns the last 2^Depth nodes, the equality-polynomial
// evaluations over the boolean hypercube
func (t *Tree) Leaves() []fr.Element {
	return t.Nodes[(1<<t.Depth)-1:]
}

// LinearCombination returns a tree whose every node is f(node1, node2).
// Both trees must have the same depth.
func LinearCombination(t1, t2 *Tree, f func(fr.Element, fr.Element) fr.Element) (*Tree, error) {
	if t1.Depth != t2.Depth {
		return nil, fmt.Errorf("eqtree: depth mismatch, %v != %v", t1.Depth, t2.Depth)
	}

	nodes := make([]fr.Element, len(t1.Nodes))
	common.Parallelize(len(nodes), func(start, stop int) {
		for i := start; i < stop; i++ {
			nodes[i] = f(t1.Nodes[i], t2.Nodes[i])
		}
	})

	return &Tree{Nodes: nodes, Depth: t1.Depth}, nil
}

// Cross returns the bilinear cross of Difference under an affine combination
// of (t1, x1) and (t2, x2). Writing the folded tree T = a*t1 + b*t2 and folded
// point x = a*x1 + b*x2 with a+b = 1, the residual of T against x satisfies
//
//	res(T, x) = a*res(t1, x1) + b*res(t2, x2) + a*b*cross
//
// where cross has, under parent p at depth i, the left child
// -(t1[p]-t2[p])*(x1_i-x2_i) and the right child +(t1[p]-t2[p])*(x1_i-x2_i),
// and a zero root. This is the per-node cross term the folding engine commits
// to inside Q.
func Cross(t1, t2 *Tree, p1, p2 []fr.Element) (*Tree, error) {
	if t1.Depth != t2.Depth {
		return nil, fmt.Errorf("eqtree: depth mismatch, %v != %v", t1.Depth, t2.Depth)
	}
	if len(p1) != t1.Depth || len(p2) != t2.Depth {
		return nil, fmt.Errorf("eqtree: point length mismatch, tree depth %v, points %v and %v", t1.Depth, len(p1), len(p2))
	}

	x1, x2 := reverse(p1), reverse(p2)
	depth := t1.Depth
	nodes := make([]fr.Element, 2*(1<<depth)-1)

	for i := 0; i < depth; i++ {
		var dx fr.Element
		dx.Sub(&x1[i], &x2[i])
		levelStart := (1 << i) - 1
		for j := 0; j < (1 << i); j++ {
			var dp fr.Element
			dp.Sub(&t1.Nodes[levelStart+j], &t2.Nodes[levelStart+j])
			left := (2*(1<<i) - 1) + j
			right := left + (1 << i)
			nodes[right].Mul(&dp, &dx)
			nodes[left].Neg(&nodes[right])
		}
	}

	return &Tree{Nodes: nodes, Depth: depth}, nil
}
