package accumulator

import (
	"testing"

	"github.com/aurora-zk/kzh-fold/common"
	"github.com/aurora-zk/kzh-fold/kzh"
	"github.com/aurora-zk/kzh-fold/poly"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

func newBenchClaim(srs *SRS) *Accumulator {
	p := poly.Random(srs.PCS.XLength() + srs.PCS.YLength())
	com, err := kzh.Commit(srs.PCS, p)
	if err != nil {
		panic(err)
	}

	x := common.RandomFrVector(srs.PCS.XLength())
	y := common.RandomFrVector(srs.PCS.YLength())
	z := p.Evaluate(append(append([]fr.Element{}, x...), y...))

	proof, err := kzh.Open(srs.PCS, p, com, x)
	if err != nil {
		panic(err)
	}

	acc, err := FromFreshProof(srs, com, proof, x, y, z)
	if err != nil {
		panic(err)
	}
	return acc
}

func benchmarkProve(b *testing.B, degree int, profiled, traced bool) {
	b.StopTimer()
	pcs, err := kzh.Setup(degree, degree, []byte("accumulator-bench"))
	if err != nil {
		b.Fatal(err)
	}
	srs, err := Setup(pcs, []byte("accumulator-bench-fold"))
	if err != nil {
		b.Fatal(err)
	}

	current := newBenchClaim(srs)
	running := newBenchClaim(srs)
	var beta fr.Element
	if _, err := beta.SetRandom(); err != nil {
		b.Fatal(err)
	}

	common.ProfileTrace(b, profiled, traced, ".", func() {
		for i := 0; i < b.N; i++ {
			if _, _, err := Prove(srs, beta, current, running); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func benchmarkDecide(b *testing.B, degree int) {
	b.StopTimer()
	pcs, err := kzh.Setup(degree, degree, []byte("accumulator-bench"))
	if err != nil {
		b.Fatal(err)
	}
	srs, err := Setup(pcs, []byte("accumulator-bench-fold"))
	if err != nil {
		b.Fatal(err)
	}
	acc := newBenchClaim(srs)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if ok, err := Decide(srs, acc); err != nil || !ok {
			b.Fatal("decide failed")
		}
	}
}

func BenchmarkProve16(b *testing.B)  { benchmarkProve(b, 16, false, false) }
func BenchmarkProve64(b *testing.B)  { benchmarkProve(b, 64, false, false) }
func BenchmarkDecide16(b *testing.B) { benchmarkDecide(b, 16) }
func BenchmarkDecide64(b *testing.B) { benchmarkDecide(b, 64) }
