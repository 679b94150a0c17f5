package metrics

// Escaped is the fraction of cells whose orbit escaped.
type Escaped struct {
	name    string
	escaped int
	samples int
}

func NewEscaped() *Escaped {
	return &Escaped{
		name: "escaped_fraction",
	}
}

func (e *Escaped) Name() string {
	return e.name
}

func (e *Escaped) Observe(k int) {
	e.samples++
	if k > 0 {
		e.escaped++
	}
}

func (e *Escaped) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.escaped) / float64(e.samples)
}

func (e *Escaped) Reset() {
	e.escaped = 0
	e.samples = 0
}
