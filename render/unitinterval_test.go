package render

import (
	"math"
	"testing"
)

func TestLinearScaleRoundTrip(t *testing.T) {
	// Linear(v, m).Scale(m) must round-trip to v within integer
	// truncation error for all v <= m.
	for _, m := range []float64{1, 7, 100, 255, 10000} {
		for v := float64(0); v <= m; v += m / 7 {
			got := int(Linear(v, m).Scale(m))
			if got != int(v) && got != int(v)-1 {
				t.Errorf("Linear(%v, %v).Scale(%v) = %d, want %d (±1 truncation)", v, m, m, got, int(v))
			}
		}
	}
}

func TestLinearUnclamped(t *testing.T) {
	u := Linear(150, 100)
	if u.Float() != 1.5 {
		t.Errorf("Linear(150, 100) = %v, want 1.5 (overshoot permitted)", u.Float())
	}
}

func TestLinearZeroMaxPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Linear with zero max did not panic")
		}
	}()
	Linear(1, 0)
}

func TestSigmoidZeroMaxPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Sigmoid with zero max did not panic")
		}
	}()
	Sigmoid(1, 0, 6)
}

func TestSigmoidMidpoint(t *testing.T) {
	// The logistic curve is centered at value == max/2 for every
	// steepness.
	for _, k := range []float64{0.5, 1, 6, 20} {
		for _, m := range []float64{2, 10, 100} {
			got := Sigmoid(m/2, m, k).Float()
			if math.Abs(got-0.5) > 1e-9 {
				t.Errorf("Sigmoid(%v/2, %v, %v) = %v, want 0.5", m, m, k, got)
			}
		}
	}
}

func TestSigmoidMonotonic(t *testing.T) {
	prev := -1.0
	for v := float64(0); v <= 100; v++ {
		got := Sigmoid(v, 100, 6).Float()
		if got <= prev {
			t.Fatalf("Sigmoid not strictly increasing at v=%v: %v <= %v", v, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("Sigmoid(%v, 100, 6) = %v outside [0,1]", v, got)
		}
		prev = got
	}
}

func TestSigmoidSteepness(t *testing.T) {
	// Larger k gives a sharper transition: further from 0.5 at the same
	// off-center value.
	soft := Sigmoid(75, 100, 2).Float()
	sharp := Sigmoid(75, 100, 12).Float()
	if sharp <= soft {
		t.Errorf("expected sharper curve above softer at v=75: k=12 gives %v, k=2 gives %v", sharp, soft)
	}
}

func TestSigmoidRangeAbs(t *testing.T) {
	// Distance is absolute: (a,b) and (b,a) agree.
	ab := SigmoidRangeAbs(3, 10, 10, 6).Float()
	ba := SigmoidRangeAbs(10, 3, 10, 6).Float()
	if ab != ba {
		t.Errorf("SigmoidRangeAbs not symmetric: %v != %v", ab, ba)
	}
	want := Sigmoid(7, 10, 6).Float()
	if ab != want {
		t.Errorf("SigmoidRangeAbs(3, 10, ...) = %v, want Sigmoid(7, ...) = %v", ab, want)
	}
}

func TestScaleTruncation(t *testing.T) {
	// Exactly max only at an internal value of exactly 1.0.
	if got := int(Linear(99, 100).Scale(10)); got != 9 {
		t.Errorf("Linear(99, 100).Scale(10) truncates to %d, want 9", got)
	}
	if got := int(Linear(100, 100).Scale(10)); got != 10 {
		t.Errorf("Linear(100, 100).Scale(10) = %d, want 10", got)
	}
}
