// Package cyclefold runs the group arithmetic of the folding engine as a
// coprocessor on the other curve of the 2-cycle. BN254 and Grumpkin share
// their field pair crosswise: the base field of BN254 is the scalar field of
// Grumpkin and vice versa, so BN254 point coordinates are native values in a
// constraint system over the Grumpkin scalar field. The coprocessor relation
// is a hand-synthesized R1CS over that field, committed with Pedersen
// commitments in the Grumpkin group and folded relaxed, Nova style.
package cyclefold

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	gfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
)

// FpToGFr reinterprets a BN254 base-field element as a Grumpkin scalar.
// The moduli are equal so the value is carried exactly.
func FpToGFr(v *fp.Element) gfr.Element {
	var res gfr.Element
	res.SetBigInt(v.BigInt(new(big.Int)))
	return res
}

// GFrToFp is the inverse of FpToGFr
func GFrToFp(v *gfr.Element) fp.Element {
	var res fp.Element
	res.SetBigInt(v.BigInt(new(big.Int)))
	return res
}

// FrToGFr lifts a BN254 scalar into the Grumpkin scalar field. The BN254
// scalar modulus is smaller than the Grumpkin one so the lift is exact.
func FrToGFr(v *fr.Element) gfr.Element {
	var res gfr.Element
	res.SetBigInt(v.BigInt(new(big.Int)))
	return res
}
