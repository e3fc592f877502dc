package accumulator

import (
	"math/big"

	"github.com/aurora-zk/kzh-fold/poly"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// dec1 is the x-tree consistency: the committed tree nodes must reproduce
// the differences of the tree against the instance point
func dec1(srs *SRS, acc *Accumulator) (bn254.G1Affine, error) {
	var res bn254.G1Affine
	diff, err := acc.Witness.TreeX.Difference(acc.Instance.X)
	if err != nil {
		return res, err
	}
	_, err = res.MultiExp(srs.Kx, diff.Nodes, ecc.MultiExpConfig{})
	return res, err
}

// dec2 is the y-tree counterpart of dec1
func dec2(srs *SRS, acc *Accumulator) (bn254.G1Affine, error) {
	var res bn254.G1Affine
	diff, err := acc.Witness.TreeY.Difference(acc.Instance.Y)
	if err != nil {
		return res, err
	}
	_, err = res.MultiExp(srs.Ky, diff.Nodes, ecc.MultiExpConfig{})
	return res, err
}

// dec3 is the scalar residual of the evaluation claim, lifted to the group
// by KPrime: <fStar, leaves(treeY)> - z
func dec3(srs *SRS, acc *Accumulator) (bn254.G1Affine, error) {
	var res bn254.G1Affine
	ip, err := poly.InnerProduct(acc.Witness.FStar, acc.Witness.TreeY.Leaves())
	if err != nil {
		return res, err
	}
	ip.Sub(&ip, &acc.Instance.Z)
	res.ScalarMultiplication(&srs.KPrime, ip.BigInt(new(big.Int)))
	return res, nil
}

// dec4 is the row residual: the partial evaluation committed under VecH must
// match the eq-weighted combination of the row commitments
func dec4(srs *SRS, acc *Accumulator) (bn254.G1Affine, error) {
	var res, rows bn254.G1Affine
	if _, err := res.MultiExp(srs.PCS.VecH, []fr.Element(acc.Witness.FStar), ecc.MultiExpConfig{}); err != nil {
		return res, err
	}
	if _, err := rows.MultiExp(acc.Witness.D, acc.Witness.TreeX.Leaves(), ecc.MultiExpConfig{}); err != nil {
		return res, err
	}
	res.Sub(&res, &rows)
	return res, nil
}

// Decide checks that the accumulator is satisfying: the row commitments open
// C under the pairing, T commits to the tree nodes, and E equals the sum of
// the four relaxed residuals
func Decide(srs *SRS, acc *Accumulator) (bool, error) {

	// pairing check: e(C, V') == prod_i e(D_i, V_i)
	var negC bn254.G1Affine
	negC.Neg(&acc.Instance.C)
	g1s := append([]bn254.G1Affine{negC}, acc.Witness.D...)
	g2s := append([]bn254.G2Affine{srs.PCS.VPrime}, srs.PCS.VecV...)
	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil || !ok {
		return false, err
	}

	// T must commit to the nodes of both trees
	var t bn254.G1Affine
	if _, err := t.MultiExp(
		append(append([]bn254.G1Affine{}, srs.Kx...), srs.Ky...),
		append(append([]fr.Element{}, acc.Witness.TreeX.Nodes...), acc.Witness.TreeY.Nodes...),
		ecc.MultiExpConfig{},
	); err != nil {
		return false, err
	}
	if !t.Equal(&acc.Instance.T) {
		return false, nil
	}

	// E must equal the sum of the four residuals
	d1, err := dec1(srs, acc)
	if err != nil {
		return false, err
	}
	d2, err := dec2(srs, acc)
	if err != nil {
		return false, err
	}
	d3, err := dec3(srs, acc)
	if err != nil {
		return false, err
	}
	d4, err := dec4(srs, acc)
	if err != nil {
		return false, err
	}

	var e bn254.G1Affine
	e.Add(&d1, &d2)
	e.Add(&e, &d3)
	e.Add(&e, &d4)

	return e.Equal(&acc.Instance.E), nil
}
