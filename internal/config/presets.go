package config

import (
	"sort"

	"github.com/san-kum/fractal/internal/field"
)

type Preset struct {
	Name        string
	Description string
	Viewport    field.Viewport
}

var Presets = map[string]Preset{
	"overview": {
		Name: "overview", Description: "the whole set",
		Viewport: field.Viewport{CenterReal: -0.85, CenterImag: 0, Span: 2.7},
	},
	"seahorse": {
		Name: "seahorse", Description: "seahorse valley between the main cardioid and the period-2 bulb",
		Viewport: field.Viewport{CenterReal: -0.04, CenterImag: -0.69, Span: 0.01},
	},
	"spiral": {
		Name: "spiral", Description: "spiral arms off the period-2 bulb",
		Viewport: field.Viewport{CenterReal: -1.255, CenterImag: 0.0255, Span: 0.00125},
	},
	"filament": {
		Name: "filament", Description: "filament region inside the spiral",
		Viewport: field.Viewport{CenterReal: -1.2499, CenterImag: 0.0254, Span: 0.0001},
	},
	"filament-deep": {
		Name: "filament-deep", Description: "four times deeper into the filament",
		Viewport: field.Viewport{CenterReal: -1.24985, CenterImag: 0.02535, Span: 0.000025},
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ListPresets returns preset names in a stable order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
