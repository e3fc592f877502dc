// Package kzh implements the pairing-based multilinear polynomial commitment
// scheme the accumulator folds over. A polynomial on lx+ly variables is laid
// out as a 2^lx x 2^ly matrix; the commitment binds the whole matrix through
// a pairing and each row through a Pedersen-style aux commitment, so opening
// reduces to one partially evaluated polynomial and the row commitments.
package kzh

import (
	"fmt"
	"math/big"

	"github.com/aurora-zk/kzh-fold/common"
	"github.com/aurora-zk/kzh-fold/poly"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

// SRS carries the commitment public parameters for a fixed matrix shape
type SRS struct {
	// DegreeX = 2^(len of x), DegreeY = 2^(len of y)
	DegreeX int
	DegreeY int

	// MatrixH[i][j] = G_j^{tau_i}
	MatrixH [][]bn254.G1Affine
	// VecH[j] = G_j^{alpha}
	VecH []bn254.G1Affine
	// VecV[i] = V^{tau_i}
	VecV []bn254.G2Affine
	// VPrime = V^{alpha}
	VPrime bn254.G2Affine
}

// Commitment is the public commitment to a polynomial
type Commitment struct {
	C bn254.G1Affine
	// Aux[i] commits to row i under VecH; it is carried to the opener
	Aux []bn254.G1Affine
}

// OpeningProof opens a commitment at a point (x, y)
type OpeningProof struct {
	D []bn254.G1Affine
	// FStar is the polynomial partially evaluated at x, on the y variables
	FStar poly.MultiLin
}

func (srs *SRS) XLength() int { return common.Log2(srs.DegreeX) }
func (srs *SRS) YLength() int { return common.Log2(srs.DegreeY) }

// sampleFr draws a field element from the seed expander
func sampleFr(shake sha3.ShakeHash) fr.Element {
	var buf [48]byte
	if _, err := shake.Read(buf[:]); err != nil {
		panic(err)
	}
	var b big.Int
	b.SetBytes(buf[:])
	var res fr.Element
	res.SetBigInt(&b)
	return res
}

// Setup derives the SRS from a seed. The same seed always yields the same
// parameters; the trapdoors never leave this function.
func Setup(degreeX, degreeY int, seed []byte) (*SRS, error) {
	if degreeX < 2 || degreeX&(degreeX-1) != 0 || degreeY < 2 || degreeY&(degreeY-1) != 0 {
		return nil, fmt.Errorf("kzh: degrees must be powers of two >= 2, got %v x %v", degreeX, degreeY)
	}

	shake := sha3.NewShake256()
	if _, err := shake.Write(seed); err != nil {
		return nil, err
	}

	_, _, g1, g2 := bn254.Generators()

	// generators G_j, trapdoors tau_i, alpha and the G2 base V
	gVec := make([]bn254.G1Affine, degreeY)
	for j := range gVec {
		s := sampleFr(shake)
		gVec[j].ScalarMultiplication(&g1, s.BigInt(new(big.Int)))
	}
	tau := make([]fr.Element, degreeX)
	for i := range tau {
		tau[i] = sampleFr(shake)
	}
	alpha := sampleFr(shake)
	vScalar := sampleFr(shake)

	var v bn254.G2Affine
	v.ScalarMultiplication(&g2, vScalar.BigInt(new(big.Int)))

	matrixH := make([][]bn254.G1Affine, degreeX)
	common.Parallelize(degreeX, func(start, stop int) {
		for i := start; i < stop; i++ {
			row := make([]bn254.G1Affine, degreeY)
			var t big.Int
			tau[i].BigInt(&t)
			for j := range row {
				row[j].ScalarMultiplication(&gVec[j], &t)
			}
			matrixH[i] = row
		}
	})

	vecH := make([]bn254.G1Affine, degreeY)
	var a big.Int
	alpha.BigInt(&a)
	for j := range vecH {
		vecH[j].ScalarMultiplication(&gVec[j], &a)
	}

	vecV := make([]bn254.G2Affine, degreeX)
	for i := range vecV {
		vecV[i].ScalarMultiplication(&v, tau[i].BigInt(new(big.Int)))
	}

	var vPrime bn254.G2Affine
	vPrime.ScalarMultiplication(&v, &a)

	return &SRS{
		DegreeX: degreeX,
		DegreeY: degreeY,
		MatrixH: matrixH,
		VecH:    vecH,
		VecV:    vecV,
		VPrime:  vPrime,
	}, nil
}

// Commit commits to a polynomial of exactly XLength+YLength variables
func Commit(srs *SRS, p poly.MultiLin) (*Commitment, error) {
	if len(p) != srs.DegreeX*srs.DegreeY {
		return nil, fmt.Errorf("kzh: polynomial has %v entries, srs wants %v", len(p), srs.DegreeX*srs.DegreeY)
	}

	bases := make([]bn254.G1Affine, 0, len(p))
	for i := 0; i < srs.DegreeX; i++ {
		bases = append(bases, srs.MatrixH[i]...)
	}

	var c bn254.G1Affine
	if _, err := c.MultiExp(bases, p, ecc.MultiExpConfig{}); err != nil {
		return nil, err
	}

	aux := make([]bn254.G1Affine, srs.DegreeX)
	common.Parallelize(srs.DegreeX, func(start, stop int) {
		for i := start; i < stop; i++ {
			if _, err := aux[i].MultiExp(srs.VecH, p.Row(i, srs.DegreeY), ecc.MultiExpConfig{}); err != nil {
				panic(err)
			}
		}
	})

	return &Commitment{C: c, Aux: aux}, nil
}

// Open produces the opening proof of p at a point whose x half is given.
// The y half is not needed: the proof is the partial evaluation at x plus
// the row commitments already present in the commitment.
func Open(srs *SRS, p poly.MultiLin, com *Commitment, x []fr.Element) (*OpeningProof, error) {
	if len(x) != srs.XLength() {
		return nil, fmt.Errorf("kzh: x has length %v, srs wants %v", len(x), srs.XLength())
	}

	fStar := p.DeepCopy()
	for _, xi := range x {
		fStar.Fold(xi)
	}

	d := make([]bn254.G1Affine, len(com.Aux))
	copy(d, com.Aux)

	return &OpeningProof{D: d, FStar: fStar}, nil
}

// Verify checks an opening proof for p(x, y) = z
func Verify(srs *SRS, com *Commitment, proof *OpeningProof, x, y []fr.Element, z *fr.Element) bool {
	if len(x) != srs.XLength() || len(y) != srs.YLength() || len(proof.D) != srs.DegreeX || len(proof.FStar) != srs.DegreeY {
		return false
	}

	// pairing check: e(C, V') = prod_i e(D_i, V_i)
	g1Elems := make([]bn254.G1Affine, 0, 1+len(proof.D))
	g1Elems = append(g1Elems, com.C)
	for i := range proof.D {
		var neg bn254.G1Affine
		neg.Neg(&proof.D[i])
		g1Elems = append(g1Elems, neg)
	}
	g2Elems := make([]bn254.G2Affine, 0, 1+len(srs.VecV))
	g2Elems = append(g2Elems, srs.VPrime)
	g2Elems = append(g2Elems, srs.VecV...)

	ok, err := bn254.PairingCheck(g1Elems, g2Elems)
	if err != nil || !ok {
		return false
	}

	// MSM check: MSM(VecH, f*) = MSM(D, eq(x))
	eq := make(poly.MultiLin, srs.DegreeX)
	poly.FoldedEqTable(eq, x)
	for i := range eq {
		eq[i].Neg(&eq[i])
	}

	bases := make([]bn254.G1Affine, 0, len(srs.VecH)+len(proof.D))
	bases = append(bases, srs.VecH...)
	bases = append(bases, proof.D...)
	scalars := make([]fr.Element, 0, len(proof.FStar)+len(eq))
	scalars = append(scalars, proof.FStar...)
	scalars = append(scalars, eq...)

	var msm bn254.G1Affine
	if _, err := msm.MultiExp(bases, scalars, ecc.MultiExpConfig{}); err != nil {
		return false
	}
	if !msm.IsInfinity() {
		return false
	}

	// evaluation check: f*(y) = z
	expected := proof.FStar.Evaluate(y)
	return expected.Equal(z)
}

// SplitBetweenXAndY left-pads r with zeros to xLen+yLen and splits it into
// the x and y halves
func SplitBetweenXAndY(xLen, yLen int, r []fr.Element) ([]fr.Element, []fr.Element, error) {
	total := xLen + yLen
	if len(r) > total {
		return nil, nil, fmt.Errorf("kzh: point has %v coordinates, srs wants at most %v", len(r), total)
	}
	extended := make([]fr.Element, total)
	copy(extended[total-len(r):], r)
	return extended[:xLen], extended[xLen:total], nil
}
