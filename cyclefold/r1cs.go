package cyclefold

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/grumpkin"
	gfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
)

// Shape is the frozen constraint system: for every row i the relaxed
// relation reads <A[i], z> * <B[i], z> = u * <C[i], z> + E[i] over
// z = [u, X..., W...].
type Shape struct {
	A, B, C []lincomb

	NPublic  int
	NWitness int
}

func (s *Shape) NConstraints() int { return len(s.A) }

// Instance is a strict (u = 1, E = 0) committed instance
type Instance struct {
	ComW grumpkin.G1Affine
	X    []gfr.Element
}

type Witness struct {
	W []gfr.Element
}

// RelaxedInstance carries the running folded instance
type RelaxedInstance struct {
	ComW grumpkin.G1Affine
	ComE grumpkin.G1Affine
	X    []gfr.Element
	U    gfr.Element
}

type RelaxedWitness struct {
	W []gfr.Element
	E []gfr.Element
}

// Relax lifts a strict instance, E stays the identity commitment
func (ins *Instance) Relax() *RelaxedInstance {
	res := &RelaxedInstance{
		ComW: ins.ComW,
		X:    append([]gfr.Element{}, ins.X...),
	}
	res.U.SetOne()
	return res
}

func (w *Witness) Relax(nConstraints int) *RelaxedWitness {
	return &RelaxedWitness{
		W: append([]gfr.Element{}, w.W...),
		E: make([]gfr.Element, nConstraints),
	}
}

// NewTrivialRelaxed is the all-zero relaxed pair, satisfying any shape
func NewTrivialRelaxed(s *Shape) (*RelaxedInstance, *RelaxedWitness) {
	ins := &RelaxedInstance{X: make([]gfr.Element, s.NPublic)}
	wit := &RelaxedWitness{
		W: make([]gfr.Element, s.NWitness),
		E: make([]gfr.Element, s.NConstraints()),
	}
	return ins, wit
}

// z assembles the extended assignment [u, X, W]
func (s *Shape) z(u gfr.Element, x, w []gfr.Element) []gfr.Element {
	res := make([]gfr.Element, 0, 1+len(x)+len(w))
	res = append(res, u)
	res = append(res, x...)
	res = append(res, w...)
	return res
}

func evalLincomb(l lincomb, z []gfr.Element) gfr.Element {
	var res, tmp gfr.Element
	for _, t := range l {
		tmp.Mul(&t.Coeff, &z[t.Wire])
		res.Add(&res, &tmp)
	}
	return res
}

// matVec applies the sparse matrix row-wise to z
func matVec(m []lincomb, z []gfr.Element) []gfr.Element {
	res := make([]gfr.Element, len(m))
	for i := range m {
		res[i] = evalLincomb(m[i], z)
	}
	return res
}

// IsSatisfied checks the strict relation and the witness commitment
func (s *Shape) IsSatisfied(pp *PedersenParams, ins *Instance, wit *Witness) error {
	if len(ins.X) != s.NPublic || len(wit.W) != s.NWitness {
		return fmt.Errorf("cyclefold: assignment size mismatch (%v, %v), shape wants (%v, %v)", len(ins.X), len(wit.W), s.NPublic, s.NWitness)
	}

	var one gfr.Element
	one.SetOne()
	z := s.z(one, ins.X, wit.W)

	az, bz, cz := matVec(s.A, z), matVec(s.B, z), matVec(s.C, z)
	var lhs gfr.Element
	for i := range az {
		lhs.Mul(&az[i], &bz[i])
		if !lhs.Equal(&cz[i]) {
			return fmt.Errorf("cyclefold: constraint %v is not satisfied", i)
		}
	}

	com, err := pp.Commit(wit.W)
	if err != nil {
		return err
	}
	if !com.Equal(&ins.ComW) {
		return fmt.Errorf("cyclefold: witness commitment mismatch")
	}
	return nil
}

// IsRelaxedSatisfied checks Az o Bz = u*Cz + E and both commitments
func (s *Shape) IsRelaxedSatisfied(pp *PedersenParams, ins *RelaxedInstance, wit *RelaxedWitness) error {
	if len(ins.X) != s.NPublic || len(wit.W) != s.NWitness || len(wit.E) != s.NConstraints() {
		return fmt.Errorf("cyclefold: relaxed assignment size mismatch")
	}

	z := s.z(ins.U, ins.X, wit.W)
	az, bz, cz := matVec(s.A, z), matVec(s.B, z), matVec(s.C, z)

	var lhs, rhs gfr.Element
	for i := range az {
		lhs.Mul(&az[i], &bz[i])
		rhs.Mul(&ins.U, &cz[i])
		rhs.Add(&rhs, &wit.E[i])
		if !lhs.Equal(&rhs) {
			return fmt.Errorf("cyclefold: relaxed constraint %v is not satisfied", i)
		}
	}

	comW, err := pp.Commit(wit.W)
	if err != nil {
		return err
	}
	if !comW.Equal(&ins.ComW) {
		return fmt.Errorf("cyclefold: witness commitment mismatch")
	}
	comE, err := pp.Commit(wit.E)
	if err != nil {
		return err
	}
	if !comE.Equal(&ins.ComE) {
		return fmt.Errorf("cyclefold: error commitment mismatch")
	}
	return nil
}

// CommitT derives the cross-error vector of folding the strict pair into the
// running relaxed pair, and its commitment:
// T = Az1 o Bz2 + Az2 o Bz1 - u1*Cz2 - Cz1
func (s *Shape) CommitT(pp *PedersenParams, rIns *RelaxedInstance, rWit *RelaxedWitness, ins *Instance, wit *Witness) ([]gfr.Element, grumpkin.G1Affine, error) {
	var comT grumpkin.G1Affine

	z1 := s.z(rIns.U, rIns.X, rWit.W)
	var one gfr.Element
	one.SetOne()
	z2 := s.z(one, ins.X, wit.W)

	az1, bz1, cz1 := matVec(s.A, z1), matVec(s.B, z1), matVec(s.C, z1)
	az2, bz2, cz2 := matVec(s.A, z2), matVec(s.B, z2), matVec(s.C, z2)

	t := make([]gfr.Element, len(az1))
	var tmp gfr.Element
	for i := range t {
		t[i].Mul(&az1[i], &bz2[i])
		tmp.Mul(&az2[i], &bz1[i])
		t[i].Add(&t[i], &tmp)
		tmp.Mul(&rIns.U, &cz2[i])
		t[i].Sub(&t[i], &tmp)
		t[i].Sub(&t[i], &cz1[i])
	}

	comT, err := pp.Commit(t)
	return t, comT, err
}

// Fold combines the running relaxed instance with a strict one under the
// challenge r
func Fold(r gfr.Element, rIns *RelaxedInstance, ins *Instance, comT *grumpkin.G1Affine) *RelaxedInstance {
	res := &RelaxedInstance{X: make([]gfr.Element, len(rIns.X))}

	var tmp gfr.Element
	for i := range res.X {
		tmp.Mul(&r, &ins.X[i])
		res.X[i].Add(&rIns.X[i], &tmp)
	}
	res.U.Add(&rIns.U, &r)

	rBig := r.BigInt(new(big.Int))
	var scaled grumpkin.G1Affine
	scaled.ScalarMultiplication(&ins.ComW, rBig)
	res.ComW.Add(&rIns.ComW, &scaled)
	scaled.ScalarMultiplication(comT, rBig)
	res.ComE.Add(&rIns.ComE, &scaled)

	return res
}

// FoldWitness is the witness side of Fold
func FoldWitness(r gfr.Element, rWit *RelaxedWitness, wit *Witness, t []gfr.Element) *RelaxedWitness {
	res := &RelaxedWitness{
		W: make([]gfr.Element, len(rWit.W)),
		E: make([]gfr.Element, len(rWit.E)),
	}
	var tmp gfr.Element
	for i := range res.W {
		tmp.Mul(&r, &wit.W[i])
		res.W[i].Add(&rWit.W[i], &tmp)
	}
	for i := range res.E {
		tmp.Mul(&r, &t[i])
		res.E[i].Add(&rWit.E[i], &tmp)
	}
	return res
}
