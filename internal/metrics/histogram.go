package metrics

import "fmt"

// Histogram buckets escape counts in [1, maxIter] into equal-width bins.
// Bounded cells (k == 0) are counted separately.
type Histogram struct {
	Bins    []int
	Bounded int
	maxIter int
}

func NewHistogram(bins, maxIter int) (*Histogram, error) {
	if bins <= 0 || maxIter <= 0 {
		return nil, fmt.Errorf("histogram: bins %d and max %d must be positive", bins, maxIter)
	}
	return &Histogram{Bins: make([]int, bins), maxIter: maxIter}, nil
}

func (h *Histogram) Observe(k int) {
	if k <= 0 {
		h.Bounded++
		return
	}
	if k > h.maxIter {
		k = h.maxIter
	}
	idx := (k - 1) * len(h.Bins) / h.maxIter
	h.Bins[idx]++
}

func (h *Histogram) ObserveAll(counts []uint16) {
	for _, k := range counts {
		h.Observe(int(k))
	}
}

// Series returns the bins as floats for plotting.
func (h *Histogram) Series() []float64 {
	out := make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		out[i] = float64(b)
	}
	return out
}

func (h *Histogram) Reset() {
	for i := range h.Bins {
		h.Bins[i] = 0
	}
	h.Bounded = 0
}
