package metrics

// Metric observes escape counts one cell at a time.
type Metric interface {
	Name() string
	Observe(k int)
	Value() float64
	Reset()
}

// Defaults returns a fresh set of the standard field metrics.
func Defaults() []Metric {
	return []Metric{
		NewEscaped(),
		NewMeanIterations(),
		NewPeak(),
	}
}

// Collect feeds every count into each metric and returns their values by
// name.
func Collect(counts []uint16, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for _, k := range counts {
		for _, m := range ms {
			m.Observe(int(k))
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
