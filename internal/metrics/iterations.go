package metrics

// MeanIterations averages the escape count over escaped cells only.
type MeanIterations struct {
	name    string
	sum     float64
	samples int
}

func NewMeanIterations() *MeanIterations {
	return &MeanIterations{
		name: "mean_iterations",
	}
}

func (m *MeanIterations) Name() string {
	return m.name
}

func (m *MeanIterations) Observe(k int) {
	if k == 0 {
		return
	}
	m.sum += float64(k)
	m.samples++
}

func (m *MeanIterations) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanIterations) Reset() {
	m.sum = 0
	m.samples = 0
}

// Peak is the largest escape count seen.
type Peak struct {
	name string
	max  int
}

func NewPeak() *Peak {
	return &Peak{name: "peak_iterations"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(k int) {
	if k > p.max {
		p.max = k
	}
}

func (p *Peak) Value() float64 { return float64(p.max) }

func (p *Peak) Reset() { p.max = 0 }
