package cyclefold

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/grumpkin"
	gfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
	"golang.org/x/crypto/sha3"
)

// PedersenParams is a vector commitment key in the Grumpkin group. The
// commitments land on the curve whose coordinates are native BN254 scalars,
// which is what lets the primary circuit manipulate them directly.
type PedersenParams struct {
	Bases []grumpkin.G1Affine
}

// NewPedersenParams samples n bases deterministically from a seed
func NewPedersenParams(n int, seed []byte) (*PedersenParams, error) {
	shake := sha3.NewShake256()
	if _, err := shake.Write(seed); err != nil {
		return nil, err
	}

	_, g1 := grumpkin.Generators()

	bases := make([]grumpkin.G1Affine, n)
	var buf [48]byte
	for i := range bases {
		if _, err := shake.Read(buf[:]); err != nil {
			return nil, err
		}
		var b big.Int
		b.SetBytes(buf[:])
		var s gfr.Element
		s.SetBigInt(&b)
		bases[i].ScalarMultiplication(&g1, s.BigInt(&b))
	}

	return &PedersenParams{Bases: bases}, nil
}

// Commit returns the multi-exponentiation of v against the bases
func (pp *PedersenParams) Commit(v []gfr.Element) (grumpkin.G1Affine, error) {
	var res grumpkin.G1Affine
	if len(v) > len(pp.Bases) {
		return res, fmt.Errorf("cyclefold: vector of length %v exceeds the %v pedersen bases", len(v), len(pp.Bases))
	}
	_, err := res.MultiExp(pp.Bases[:len(v)], v, ecc.MultiExpConfig{})
	return res, err
}
