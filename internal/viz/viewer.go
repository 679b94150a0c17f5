package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fractal/internal/compute"
	"github.com/san-kum/fractal/internal/config"
	"github.com/san-kum/fractal/internal/field"
	"github.com/san-kum/fractal/internal/metrics"
	"github.com/san-kum/fractal/internal/spectrum"
)

const (
	panStep    = 0.1
	zoomFactor = 0.5
	statusRows = 2
)

type frameMsg struct {
	gen      int
	canvas   *Canvas
	viewport field.Viewport
	elapsed  time.Duration
	escaped  float64
	err      error
}

type Viewer struct {
	start    field.Viewport
	viewport field.Viewport
	presets  []string
	preset   int
	backend  compute.Backend

	cols, rows int
	gen        int
	busy       bool
	frame      *frameMsg

	// cancel stops the render for gen once it is superseded.
	cancel context.CancelFunc
}

func NewViewer(start field.Viewport, backend compute.Backend) Viewer {
	if backend == nil {
		backend = compute.AutoSelect(0)
	}
	return Viewer{
		start:    start,
		viewport: start,
		presets:  config.ListPresets(),
		preset:   -1,
		backend:  backend,
	}
}

func (m Viewer) Init() tea.Cmd { return nil }

func (m Viewer) Viewport() field.Viewport { return m.viewport }

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		return m.refresh()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.frame = &msg
	}
	return m, nil
}

func (m Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case "left", "h":
		m.viewport = m.viewport.Pan(-panStep, 0)
	case "right", "l":
		m.viewport = m.viewport.Pan(panStep, 0)
	case "up", "k":
		m.viewport = m.viewport.Pan(0, -panStep)
	case "down", "j":
		m.viewport = m.viewport.Pan(0, panStep)
	case "+", "=":
		m.viewport = m.viewport.Zoom(zoomFactor)
	case "-", "_":
		m.viewport = m.viewport.Zoom(1 / zoomFactor)
	case "p":
		m.preset = (m.preset + 1) % len(m.presets)
		p, _ := config.GetPreset(m.presets[m.preset])
		m.viewport = p.Viewport
	case "r":
		m.viewport = m.start
	default:
		return m, nil
	}
	return m.refresh()
}

// pixelSize maps the terminal onto field pixels: one column per cell and
// two rows per line, leaving room for the status bar.
func (m Viewer) pixelSize() (int, int) {
	return m.cols, (m.rows - statusRows) * 2
}

func (m Viewer) refresh() (Viewer, tea.Cmd) {
	w, h := m.pixelSize()
	if w <= 0 || h <= 0 {
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.gen++
	m.busy = true
	return m, renderCmd(ctx, m.gen, w, h, m.viewport, m.backend)
}

// renderCmd computes a frame off the UI goroutine. Each frame gets its own
// field so overlapping renders never share a grid; ctx ends when a newer
// frame is requested.
func renderCmd(ctx context.Context, gen, w, h int, v field.Viewport, backend compute.Backend) tea.Cmd {
	return func() tea.Msg {
		msg := frameMsg{gen: gen, viewport: v}
		f, err := field.New(w, h, field.WithBackend(backend))
		if err != nil {
			msg.err = err
			return msg
		}

		start := time.Now()
		if err := f.Compute(ctx, v); err != nil {
			msg.err = err
			return msg
		}
		msg.elapsed = time.Since(start)

		msg.canvas = NewCanvas(w, h)
		f.Render(msg.canvas)
		msg.escaped = metrics.Collect(f.Counts(), metrics.NewEscaped())["escaped_fraction"]
		return msg
	}
}

func (m Viewer) View() string {
	if m.cols == 0 {
		return "starting..."
	}

	var b strings.Builder
	if m.frame != nil && m.frame.canvas != nil {
		b.WriteString(m.frame.canvas.String())
		b.WriteByte('\n')
	}
	b.WriteString(m.status())
	b.WriteByte('\n')
	b.WriteString(keyHint.Render("arrows pan · +/- zoom · p preset · r reset · q quit"))
	return b.String()
}

func (m Viewer) status() string {
	parts := []string{
		titleStyle.Render("mandelbrot"),
		labelStyle.Render("at") + " " + valueStyle.Render(m.viewport.String()),
	}
	switch {
	case m.busy:
		parts = append(parts, busyStyle.Render("rendering"))
	case m.frame != nil && m.frame.err != nil:
		parts = append(parts, errorStyle.Render(m.frame.err.Error()))
	case m.frame != nil:
		parts = append(parts,
			labelStyle.Render("took")+" "+valueStyle.Render(m.frame.elapsed.Round(time.Millisecond).String()),
			labelStyle.Render("escaped")+" "+valueStyle.Render(fmt.Sprintf("%.1f%%", m.frame.escaped*100)),
		)
	}
	parts = append(parts, Legend(spectrum.Default(), 16))
	return strings.Join(parts, "  ")
}

// RunViewer starts the interactive viewer on the alternate screen.
func RunViewer(start field.Viewport, backend compute.Backend) error {
	p := tea.NewProgram(NewViewer(start, backend), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
