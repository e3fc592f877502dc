package accumulator

import (
	"math/big"

	"github.com/aurora-zk/kzh-fold/kzh"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

// SRS extends the commitment-scheme parameters with the folding generators.
// Kx and Ky are sized to the node counts of the x and y equality trees
// (2*degree - 1), KPrime binds the scalar residual of the evaluation claim.
type SRS struct {
	Kx     []bn254.G1Affine
	Ky     []bn254.G1Affine
	KPrime bn254.G1Affine

	PCS *kzh.SRS
}

// Setup derives the folding generators from a seed, deterministically,
// sized by the underlying commitment parameters
func Setup(pcs *kzh.SRS, seed []byte) (*SRS, error) {
	shake := sha3.NewShake256()
	if _, err := shake.Write(seed); err != nil {
		return nil, err
	}

	_, _, g1, _ := bn254.Generators()

	sample := func() bn254.G1Affine {
		var buf [48]byte
		if _, err := shake.Read(buf[:]); err != nil {
			panic(err)
		}
		var b big.Int
		b.SetBytes(buf[:])
		var s fr.Element
		s.SetBigInt(&b)
		var res bn254.G1Affine
		res.ScalarMultiplication(&g1, s.BigInt(&b))
		return res
	}

	kx := make([]bn254.G1Affine, 2*pcs.DegreeX-1)
	for i := range kx {
		kx[i] = sample()
	}
	ky := make([]bn254.G1Affine, 2*pcs.DegreeY-1)
	for i := range ky {
		ky[i] = sample()
	}

	return &SRS{
		Kx:     kx,
		Ky:     ky,
		KPrime: sample(),
		PCS:    pcs,
	}, nil
}
