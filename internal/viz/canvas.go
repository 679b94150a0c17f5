package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fractal/internal/spectrum"
)

const halfBlock = "▀"

// Canvas collects pixels and prints them two rows per terminal line: the
// foreground of ▀ is the upper pixel, the background the lower one.
type Canvas struct {
	Width, Height int
	pixels        []spectrum.RGB
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, pixels: make([]spectrum.RGB, w*h)}
}

func (c *Canvas) SetPixel(x, y int, col spectrum.RGB) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.pixels[y*c.Width+x] = col
}

func (c *Canvas) At(x, y int) spectrum.RGB {
	return c.pixels[y*c.Width+x]
}

// Lines returns the number of terminal lines String produces.
func (c *Canvas) Lines() int {
	return (c.Height + 1) / 2
}

func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.Height; y += 2 {
		for x := 0; x < c.Width; x++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.At(x, y).Hex()))
			if y+1 < c.Height {
				style = style.Background(lipgloss.Color(c.At(x, y+1).Hex()))
			}
			b.WriteString(style.Render(halfBlock))
		}
		if y+2 < c.Height {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Legend renders n swatches of the spectral gradient.
func Legend(t *spectrum.Table, n int) string {
	var b strings.Builder
	for _, col := range t.Gradient(n) {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Render("█"))
	}
	return b.String()
}
