package spectrum

import (
	"fmt"
	"sync"
)

// Size is the number of table entries. It equals the field's iteration cap
// so iteration counts index the table directly.
const Size = 1024

// RGB is an opaque 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Black is the colour of points that never escape.
var Black = RGB{}

type Table struct {
	entries [Size]RGB
}

// Build computes the full table. Slot 0 is black; slots 1..Size-1 sweep
// linearly from MinWavelength towards MaxWavelength.
func Build() *Table {
	t := &Table{}
	step := (MaxWavelength - MinWavelength) / (Size - 1)
	for i := 1; i < Size; i++ {
		t.entries[i] = WavelengthToRGB(MinWavelength + float64(i-1)*step)
	}
	return t
}

var defaultTable = sync.OnceValue(Build)

// Default returns the shared table, building it on first use.
func Default() *Table {
	return defaultTable()
}

// Lookup returns the colour for bucket i. Callers clamp i to [0, Size);
// anything else panics.
func (t *Table) Lookup(i int) RGB {
	return t.entries[i]
}

func (t *Table) Len() int { return Size }

// Gradient samples n colours evenly across the non-black part of the table.
func (t *Table) Gradient(n int) []RGB {
	if n <= 0 {
		return nil
	}
	out := make([]RGB, n)
	if n == 1 {
		out[0] = t.entries[1]
		return out
	}
	for i := range out {
		idx := 1 + i*(Size-2)/(n-1)
		out[i] = t.entries[idx]
	}
	return out
}
