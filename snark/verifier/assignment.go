package verifier

import (
	"fmt"

	"github.com/aurora-zk/kzh-fold/cyclefold"
	"github.com/aurora-zk/kzh-fold/prover"

	"github.com/consensys/gnark/std/algebra/native/sw_grumpkin"
	"github.com/consensys/gnark/std/math/emulated"
)

// NewAssignment packages a prover's fold and its accumulated coprocessor
// proofs into a witness assignment for the circuit
func NewAssignment(p *prover.FoldingProver, proofs []prover.CycleFoldProof, ovaRunning, ovaFinal *cyclefold.RelaxedInstance) (*Circuit, error) {
	if len(proofs) != 4 {
		return nil, fmt.Errorf("verifier: want 4 cycle-fold proofs, got %v", len(proofs))
	}

	betaG := cyclefold.FrToGFr(&p.Beta)
	c := &Circuit{
		Current:    NewAccInstanceVar(&p.Current.Instance),
		Running:    NewAccInstanceVar(&p.Running.Instance),
		Final:      NewAccInstanceVar(&p.Final.Instance),
		Q:          NewPointVar(&p.Q),
		Beta:       p.Beta,
		BetaNN:     emulated.ValueOf[sw_grumpkin.ScalarField](betaG),
		OvaRunning: NewOvaVar(ovaRunning),
		OvaFinal:   NewOvaVar(ovaFinal),
	}
	for i, proof := range proofs {
		c.Opcodes[i] = NewOpcodeVar(proof.Instance)
		c.ComT[i] = sw_grumpkin.NewG1Affine(proof.ComT)
	}
	return c, nil
}
