package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fractal/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "frame.png")
	dataPath := filepath.Join(dir, "data")

	out, err := execute(t, "render", "--preset", "filament", "--width", "8", "--height", "6",
		"-o", outPath, "--save", "--data", dataPath, "--workers", "2")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "run id:") {
		t.Errorf("expected run id in output, got %q", out)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("image not written: %v", err)
	}

	runs, err := storage.New(dataPath).List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Preset != "filament" || runs[0].Width != 8 {
		t.Errorf("unexpected runs: %+v", runs)
	}

	out, err = execute(t, "show", runs[0].ID, "--data", dataPath)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "peak_iterations") {
		t.Errorf("expected metrics in show output, got %q", out)
	}
}

func TestRenderRejectsBadViewport(t *testing.T) {
	_, err := execute(t, "render", "--span", "0", "-o", filepath.Join(t.TempDir(), "x.png"))
	if err == nil {
		t.Fatal("expected error for zero span")
	}
}

func TestRenderUnknownPreset(t *testing.T) {
	_, err := execute(t, "render", "--preset", "atlantis")
	if err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("expected unknown preset error, got %v", err)
	}
}

func TestRenderConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "render.yaml")
	outPath := filepath.Join(dir, "cfg.ppm")
	data := "width: 4\nheight: 4\nviewport:\n  center_real: -0.85\n  center_imag: 0\n  span: 2.7\noutput: " + outPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "render", "--config", cfgPath); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("P6\n4 4\n")) {
		t.Errorf("expected 4x4 ppm, got header %q", raw[:min(len(raw), 10)])
	}
}

func TestConfigDataDirSharedByRenderListShow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "render.yaml")
	runDir := filepath.Join(dir, "runs")
	data := "width: 4\nheight: 4\nviewport:\n  center_real: -0.85\n  center_imag: 0\n  span: 2.7\n" +
		"output: " + filepath.Join(dir, "cfg.png") + "\ndata_dir: " + runDir + "\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "render", "--config", cfgPath, "--save"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	runs, err := storage.New(runDir).List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one run in %s, got %d (%v)", runDir, len(runs), err)
	}

	out, err := execute(t, "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, runs[0].ID) {
		t.Errorf("expected run %s in list output, got %q", runs[0].ID, out)
	}

	out, err = execute(t, "show", runs[0].ID, "--config", cfgPath)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, runs[0].ID) {
		t.Errorf("expected run id in show output, got %q", out)
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"overview", "seahorse", "spiral"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %s in output", name)
		}
	}
}

func TestStatsCommand(t *testing.T) {
	out, err := execute(t, "stats", "--preset", "overview", "--width", "16", "--height", "16", "--bins", "8")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "escaped_fraction") || !strings.Contains(out, "escape iterations") {
		t.Errorf("unexpected stats output: %q", out)
	}
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--width", "16", "--height", "16", "--runs", "1", "--workers", "2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "serial") || !strings.Contains(out, "cpu") {
		t.Errorf("expected both backends, got %q", out)
	}
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--data", filepath.Join(t.TempDir(), "none"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Errorf("unexpected output %q", out)
	}
}
