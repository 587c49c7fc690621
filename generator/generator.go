// Package generator produces the reproducible, skewed synthetic payloads
// driving both benchmark phases. Sizes and key indices follow a Zipfian
// distribution with exponent 1.0, so a few low indices dominate the
// traffic; key bytes are derived deterministically from the sampled index,
// which maps each logical index to one fixed key.
package generator

import (
	"fmt"
	"math"
	mrand "math/rand"
)

// zipf samples integers from [1, n] with probability proportional to
// 1/rank, using the rejection-inversion method of Hörmann and Derflinger.
// math/rand.Zipf cannot serve here: it requires an exponent strictly
// greater than 1, and this workload family is defined at exactly 1.0.
type zipf struct {
	n float64

	// Precomputed bounds of the transformed density.
	hx1 float64 // hIntegral(1.5) - 1
	hn  float64 // hIntegral(n + 0.5)
	s   float64
}

func newZipf(n uint64) (*zipf, error) {
	if n < 1 {
		return nil, fmt.Errorf("zipf domain must contain at least one element, got %d", n)
	}

	z := &zipf{n: float64(n)}
	z.hx1 = hIntegral(1.5) - 1
	z.hn = hIntegral(z.n + 0.5)
	z.s = 2 - hIntegralInverse(hIntegral(2.5)-h(2))

	return z, nil
}

// sample draws the next value in [1, n] from rng.
func (z *zipf) sample(rng *mrand.Rand) uint64 {
	for {
		u := z.hn + rng.Float64()*(z.hx1-z.hn)
		x := hIntegralInverse(u)

		k := math.Floor(x + 0.5)
		if k < 1 {
			k = 1
		} else if k > z.n {
			k = z.n
		}

		if k-x <= z.s || u >= hIntegral(k+0.5)-h(k) {
			return uint64(k)
		}
	}
}

// At exponent 1.0 the transformed density helpers reduce to log/exp.
func hIntegral(x float64) float64 { return math.Log(x) }

func hIntegralInverse(x float64) float64 { return math.Exp(x) }

func h(x float64) float64 { return 1 / x }

// SizeGen draws Zipfian-distributed sizes from [1, rangeMax]. Callers add
// their own range floor on top of the sample.
type SizeGen struct {
	zipf *zipf
	rng  *mrand.Rand
}

// NewSizeGen creates a seeded size generator over [1, rangeMax].
// rangeMax must be at least 1.
func NewSizeGen(rangeMax, seed uint64) (*SizeGen, error) {
	z, err := newZipf(rangeMax)
	if err != nil {
		return nil, fmt.Errorf("size generator: %w", err)
	}

	return &SizeGen{
		zipf: z,
		rng:  mrand.New(mrand.NewSource(int64(seed))),
	}, nil
}

// Size returns the next sample.
func (g *SizeGen) Size() uint64 {
	return g.zipf.sample(g.rng)
}

// ByteGen produces key and value payloads. Key selection is Zipfian over
// a fixed index domain; value content comes from the generator's own
// free-running stream.
type ByteGen struct {
	zipf *zipf
	rng  *mrand.Rand
}

// NewByteGen creates a seeded byte generator whose key indices are drawn
// from [1, cardinality]. cardinality must be at least 1.
func NewByteGen(cardinality, seed uint64) (*ByteGen, error) {
	z, err := newZipf(cardinality)
	if err != nil {
		return nil, fmt.Errorf("byte generator: %w", err)
	}

	return &ByteGen{
		zipf: z,
		rng:  mrand.New(mrand.NewSource(int64(seed))),
	}, nil
}

// KeyBytes draws a Zipfian key index and expands it to size bytes. The
// byte source is reseeded from the index itself, so a given index always
// yields identical bytes, independent of call order or goroutine. Which
// index gets drawn depends on the generator's own seed; what bytes an
// index expands to does not.
func (g *ByteGen) KeyBytes(size uint64) []byte {
	idx := g.zipf.sample(g.rng)

	buf := make([]byte, size)
	mrand.New(mrand.NewSource(int64(idx))).Read(buf)

	return buf
}

// ValueBytes fills size bytes from the generator's internal stream.
// Successive calls return independent content; values are never looked
// up by content, so reproducibility is not needed here.
func (g *ByteGen) ValueBytes(size uint64) []byte {
	buf := make([]byte, size)
	g.rng.Read(buf)

	return buf
}
