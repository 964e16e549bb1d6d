package engine

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.IntRange(1, 6)
		b := rng2.IntRange(1, 6)
		if a != b {
			t.Fatalf("draw %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_IntRange_Bounds(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.IntRange(40, 80)
		if r < 40 || r > 80 {
			t.Fatalf("draw out of range [40,80]: got %d", r)
		}
	}
}

func TestRNG_IntRange_Degenerate(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if r := rng.IntRange(5, 5); r != 5 {
			t.Fatalf("[5,5] should always be 5, got %d", r)
		}
	}
	if r := rng.IntRange(9, 7); r < 7 || r > 9 {
		t.Fatalf("swapped bounds gave %d", r)
	}
}

func TestRNG_FloatRange(t *testing.T) {
	rng := NewRNG(7)

	for i := 0; i < 1000; i++ {
		f := rng.FloatRange(0.8, 1.25)
		if f < 0.8 || f >= 1.25 {
			t.Fatalf("draw out of range [0.8,1.25): got %v", f)
		}
	}
	if f := rng.FloatRange(1, 1); f != 1 {
		t.Fatalf("empty range should return lo, got %v", f)
	}
}

func TestRNG_Position(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("initial position: got %d, want 0", rng.Position())
	}
	rng.Intn(6)
	rng.IntRange(1, 3)
	rng.FloatRange(0, 1)
	if rng.Position() != 3 {
		t.Fatalf("after 3 draws: got %d, want 3", rng.Position())
	}
	if rng.Seed() != 42 {
		t.Fatalf("seed: got %d, want 42", rng.Seed())
	}
}
