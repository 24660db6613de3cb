package rng

import (
	"sync"
	"testing"
)

func TestXoshiroReferenceSequence(t *testing.T) {
	x := &Xoshiro{s: [4]uint64{1, 2, 3, 4}}
	want := []uint64{11520, 0, 0, 1509978240}
	for i, w := range want {
		if got := x.Uint64(); got != w {
			t.Fatalf("output %d: got %d, want %d", i, got, w)
		}
	}
}

func TestNewRejectsEmptySeed(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("empty seed must error")
	}
}

func TestNewShortSeedIsRepeated(t *testing.T) {
	a, err := New([]byte{7})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New([]byte{7, 7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("short seeds expanded differently at step %d", i)
		}
	}
}

func TestZeroSeedDoesNotStick(t *testing.T) {
	x, err := New(make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	nonZero := false
	for i := 0; i < 8; i++ {
		if x.Uint64() != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Fatal("all-zero state produced only zeros")
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("diverged at %d", i)
		}
	}
}

func TestIntNBoundsAndSpread(t *testing.T) {
	x := NewSeeded(1)
	const n, draws = 7, 70000
	var hist [n]int
	for i := 0; i < draws; i++ {
		v := x.IntN(n)
		if v < 0 || v >= n {
			t.Fatalf("IntN(%d) = %d out of range", n, v)
		}
		hist[v]++
	}
	for i, c := range hist {
		freq := float64(c) / draws
		if diff := freq - 1.0/n; diff > 0.01 || diff < -0.01 {
			t.Fatalf("bucket %d freq=%f far from %f", i, freq, 1.0/n)
		}
	}
}

func TestIntNPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("IntN(0) must panic")
		}
	}()
	NewSeeded(1).IntN(0)
}

func TestFloat64Range(t *testing.T) {
	x := NewSeeded(3)
	for i := 0; i < 10000; i++ {
		f := x.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of [0,1): %f", f)
		}
	}
}

func TestLockedConcurrentUse(t *testing.T) {
	l := NewLocked(NewSeeded(9))
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = l.IntN(10)
				_ = l.Float64()
			}
		}()
	}
	wg.Wait()
}
