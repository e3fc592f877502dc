package transcript

import (
	"hash"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// Transcript is the Fiat-Shamir oracle shared by the folding prover and the
// in-circuit verifier. It is a MiMC sponge over the BN254 scalar field: every
// absorbed value is a field element, so the circuit replay (std/hash/mimc)
// drives the identical permutation sequence.
//
// Labels document the call sites; they are not absorbed.
type Transcript struct {
	h hash.Hash
}

func New() *Transcript {
	return &Transcript{h: mimc.NewMiMC()}
}

// AppendScalar absorbs one field element
func (t *Transcript) AppendScalar(label string, s *fr.Element) {
	_ = label
	// Marshal yields the canonical 32-byte block MiMC expects
	if _, err := t.h.Write(s.Marshal()); err != nil {
		panic(err)
	}
}

// AppendScalars absorbs a vector of field elements
func (t *Transcript) AppendScalars(label string, vs []fr.Element) {
	for i := range vs {
		t.AppendScalar(label, &vs[i])
	}
}

// AppendPoint absorbs a curve point as its pair of base-field coordinates
// reduced into the scalar field
func (t *Transcript) AppendPoint(label string, p *bn254.G1Affine) {
	x, y := PointToScalars(p)
	t.AppendScalar(label, &x)
	t.AppendScalar(label, &y)
}

// ChallengeScalar squeezes one challenge and reseeds the sponge with it,
// so consecutive challenges are chained
func (t *Transcript) ChallengeScalar(label string) fr.Element {
	_ = label
	digest := t.h.Sum(nil)

	var c fr.Element
	c.SetBytes(digest)

	t.h.Reset()
	if _, err := t.h.Write(digest); err != nil {
		panic(err)
	}
	return c
}

// ChallengeVector squeezes n chained challenges
func (t *Transcript) ChallengeVector(label string, n int) []fr.Element {
	res := make([]fr.Element, n)
	for i := range res {
		res[i] = t.ChallengeScalar(label)
	}
	return res
}

// PointToScalars maps an affine point to a pair of scalar-field elements,
// each base-field coordinate reduced mod r. The identity maps to (0, 0).
// The in-circuit counterpart recomposes the same values from the bits of
// the non-native coordinates.
func PointToScalars(p *bn254.G1Affine) (x, y fr.Element) {
	var b big.Int
	p.X.BigInt(&b)
	x.SetBigInt(&b)
	p.Y.BigInt(&b)
	y.SetBigInt(&b)
	return x, y
}
