package verifier

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// circuitTranscript mirrors the native Fiat-Shamir transcript inside the circuit.
// The native side absorbs raw field elements through the same MiMC
// permutation, so the replay is a plain Write of the same sequence.
type circuitTranscript struct {
	h mimc.MiMC
}

func newTranscript(api frontend.API) (*circuitTranscript, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	return &circuitTranscript{h: h}, nil
}

func (t *circuitTranscript) append(vs ...frontend.Variable) {
	t.h.Write(vs...)
}

// challenge squeezes the state and re-seeds the sponge with the digest,
// matching the native ChallengeScalar
func (t *circuitTranscript) challenge() frontend.Variable {
	digest := t.h.Sum()
	t.h.Reset()
	t.h.Write(digest)
	return digest
}
