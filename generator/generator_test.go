package generator

import (
	"bytes"
	"testing"
)

func TestNewSizeGenInvalidRange(t *testing.T) {
	if _, err := NewSizeGen(0, 1); err == nil {
		t.Fatal("expected error for empty domain")
	}
}

func TestNewByteGenInvalidCardinality(t *testing.T) {
	if _, err := NewByteGen(0, 1); err == nil {
		t.Fatal("expected error for empty domain")
	}
}

func TestSizeGenInRange(t *testing.T) {
	const rangeMax = 100

	gen, err := NewSizeGen(rangeMax, 42)
	if err != nil {
		t.Fatalf("NewSizeGen failed: %v", err)
	}

	for i := 0; i < 10_000; i++ {
		s := gen.Size()
		if s < 1 || s > rangeMax {
			t.Fatalf("sample %d outside [1, %d]", s, rangeMax)
		}
	}
}

func TestSizeGenDeterministic(t *testing.T) {
	gen1, err := NewSizeGen(1000, 7)
	if err != nil {
		t.Fatalf("NewSizeGen failed: %v", err)
	}

	gen2, err := NewSizeGen(1000, 7)
	if err != nil {
		t.Fatalf("NewSizeGen failed: %v", err)
	}

	for i := 0; i < 1000; i++ {
		s1, s2 := gen1.Size(), gen2.Size()
		if s1 != s2 {
			t.Fatalf("draw %d: %d != %d for identical seeds", i, s1, s2)
		}
	}
}

func TestSizeGenSkew(t *testing.T) {
	const (
		rangeMax = 100
		draws    = 100_000
	)

	gen, err := NewSizeGen(rangeMax, 42)
	if err != nil {
		t.Fatalf("NewSizeGen failed: %v", err)
	}

	counts := make([]int, rangeMax+1)
	for i := 0; i < draws; i++ {
		counts[gen.Size()]++
	}

	// At exponent 1.0 over 100 ranks, rank 1 carries just under a fifth
	// of the mass. Loose bounds to stay robust across seeds.
	if counts[1] < draws/10 {
		t.Errorf("rank 1 drawn %d times, expected heavy skew toward it",
			counts[1])
	}

	if counts[1] <= counts[rangeMax] {
		t.Errorf("rank 1 (%d draws) not favored over rank %d (%d draws)",
			counts[1], rangeMax, counts[rangeMax])
	}
}

func TestKeyBytesLength(t *testing.T) {
	gen, err := NewByteGen(100, 1)
	if err != nil {
		t.Fatalf("NewByteGen failed: %v", err)
	}

	for _, size := range []uint64{1, 8, 128} {
		if got := len(gen.KeyBytes(size)); got != int(size) {
			t.Errorf("key size %d: got %d bytes", size, got)
		}
	}
}

func TestKeyBytesDeterministicPerIndex(t *testing.T) {
	// With a tiny index domain, two differently seeded generators must
	// converge on the same canonical key set: key bytes depend only on
	// the sampled index, never on the generator's seed.
	const (
		cardinality = 3
		keySize     = 16
		draws       = 1000
	)

	distinct := func(seed uint64) map[string]struct{} {
		t.Helper()

		gen, err := NewByteGen(cardinality, seed)
		if err != nil {
			t.Fatalf("NewByteGen failed: %v", err)
		}

		keys := make(map[string]struct{})
		for i := 0; i < draws; i++ {
			keys[string(gen.KeyBytes(keySize))] = struct{}{}
		}

		return keys
	}

	keys1 := distinct(11)
	keys2 := distinct(99)

	if len(keys1) > cardinality {
		t.Fatalf("%d distinct keys from an index domain of %d",
			len(keys1), cardinality)
	}

	if len(keys1) != len(keys2) {
		t.Fatalf("key sets differ in size: %d vs %d",
			len(keys1), len(keys2))
	}

	for k := range keys1 {
		if _, ok := keys2[k]; !ok {
			t.Fatal("differently seeded generators produced different key bytes for the same index domain")
		}
	}
}

func TestValueBytesIndependent(t *testing.T) {
	gen, err := NewByteGen(100, 1)
	if err != nil {
		t.Fatalf("NewByteGen failed: %v", err)
	}

	v1 := gen.ValueBytes(64)
	v2 := gen.ValueBytes(64)

	if len(v1) != 64 || len(v2) != 64 {
		t.Fatalf("value sizes: %d, %d", len(v1), len(v2))
	}

	if bytes.Equal(v1, v2) {
		t.Error("successive value payloads are identical")
	}
}
