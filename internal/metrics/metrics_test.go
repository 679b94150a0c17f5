package metrics

import (
	"math"
	"testing"
)

func TestEscaped(t *testing.T) {
	m := NewEscaped()
	if m.Value() != 0 {
		t.Error("expected zero before observing")
	}

	for _, k := range []int{0, 1, 5, 0} {
		m.Observe(k)
	}
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanIterationsSkipsBounded(t *testing.T) {
	m := NewMeanIterations()
	for _, k := range []int{0, 2, 4, 0} {
		m.Observe(k)
	}
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected mean 3, got %f", m.Value())
	}
}

func TestCollect(t *testing.T) {
	counts := []uint16{690, 260, 452, 203, 0, 330, 251, 397, 203}
	got := Collect(counts, Defaults()...)

	if got["peak_iterations"] != 690 {
		t.Errorf("expected peak 690, got %f", got["peak_iterations"])
	}
	if math.Abs(got["escaped_fraction"]-8.0/9.0) > 1e-12 {
		t.Errorf("expected 8/9 escaped, got %f", got["escaped_fraction"])
	}
	if math.Abs(got["mean_iterations"]-2786.0/8.0) > 1e-9 {
		t.Errorf("unexpected mean %f", got["mean_iterations"])
	}

	// Collect resets before observing.
	again := Collect(counts, Defaults()...)
	if again["peak_iterations"] != got["peak_iterations"] {
		t.Error("collect should be repeatable")
	}
}

func TestHistogram(t *testing.T) {
	h, err := NewHistogram(4, 1024)
	if err != nil {
		t.Fatal(err)
	}

	h.ObserveAll([]uint16{0, 1, 256, 257, 1024, 1024, 0})
	want := []int{2, 1, 0, 2}
	for i, w := range want {
		if h.Bins[i] != w {
			t.Errorf("bin %d: expected %d, got %d", i, w, h.Bins[i])
		}
	}
	if h.Bounded != 2 {
		t.Errorf("expected 2 bounded, got %d", h.Bounded)
	}
	if len(h.Series()) != 4 {
		t.Error("series length mismatch")
	}

	h.Reset()
	for _, b := range h.Bins {
		if b != 0 {
			t.Error("expected empty bins after reset")
		}
	}
}

func TestHistogramInvalid(t *testing.T) {
	if _, err := NewHistogram(0, 10); err == nil {
		t.Error("expected error for zero bins")
	}
}
