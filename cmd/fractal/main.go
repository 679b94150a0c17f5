package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fractal/internal/compute"
	"github.com/san-kum/fractal/internal/config"
	"github.com/san-kum/fractal/internal/field"
	"github.com/san-kum/fractal/internal/metrics"
	"github.com/san-kum/fractal/internal/raster"
	"github.com/san-kum/fractal/internal/server"
	"github.com/san-kum/fractal/internal/spectrum"
	"github.com/san-kum/fractal/internal/storage"
	"github.com/san-kum/fractal/internal/viz"
)

var (
	verbose    bool
	dataDir    string
	configFile string
	preset     string
	width      int
	height     int
	centerRe   float64
	centerIm   float64
	span       float64
	workers    int
	output     string
	save       bool
	addr       string
	bins       int
	swatches   int
	benchRuns  int
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fractal",
		Short:         "spectral mandelbrot renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a viewport to an image file",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addViewFlags(renderCmd)
	renderCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width in pixels")
	renderCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height in pixels")
	renderCmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutput, "output file (.png or .ppm)")
	renderCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "explore the set in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunViewer(cfg.Viewport, compute.AutoSelect(cfg.Workers))
		},
	}
	addViewFlags(viewCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve renders over http and websocket",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&workers, "workers", 0, "render workers (0 = one per cpu)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list viewport presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCENTER\tSPAN\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%g%+gi\t%g\t%s\n", name, p.Viewport.CenterReal, p.Viewport.CenterImag, p.Viewport.Span, p.Description)
			}
			return w.Flush()
		},
	}

	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "show the spectral gradient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := spectrum.Default()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, viz.Legend(tbl, swatches))
			for i, c := range tbl.Gradient(swatches) {
				fmt.Fprintf(out, "%3d  %s\n", i, c.Hex())
			}
			return nil
		},
	}
	paletteCmd.Flags().IntVar(&swatches, "n", 32, "number of swatches")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "escape statistics and iteration histogram",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	addViewFlags(statsCmd)
	statsCmd.Flags().IntVar(&width, "width", 256, "sample width")
	statsCmd.Flags().IntVar(&height, "height", 256, "sample height")
	statsCmd.Flags().IntVar(&bins, "bins", 64, "histogram bins")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&configFile, "config", "", "config file naming the data directory")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&configFile, "config", "", "config file naming the data directory")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare compute backends",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	addViewFlags(benchCmd)
	benchCmd.Flags().IntVar(&width, "width", 512, "field width")
	benchCmd.Flags().IntVar(&height, "height", 512, "field height")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 3, "runs per backend")

	rootCmd.AddCommand(renderCmd, viewCmd, serveCmd, presetsCmd, paletteCmd, statsCmd, listCmd, showCmd, benchCmd)
	return rootCmd
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml or toml)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "start from a preset viewport")
	cmd.Flags().Float64Var(&centerRe, "cr", 0, "viewport centre, real part")
	cmd.Flags().Float64Var(&centerIm, "ci", 0, "viewport centre, imaginary part")
	cmd.Flags().Float64Var(&span, "span", 0, "viewport width in the complex plane")
	cmd.Flags().IntVar(&workers, "workers", 0, "render workers (0 = one per cpu)")
}

// resolveConfig layers defaults, config file, preset and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	name := preset
	if name != "" {
		p, ok := config.GetPreset(name)
		if !ok {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
		cfg.Viewport = p.Viewport
	}

	flags := cmd.Flags()
	if flags.Changed("cr") {
		cfg.Viewport.CenterReal = centerRe
	}
	if flags.Changed("ci") {
		cfg.Viewport.CenterImag = centerIm
	}
	if flags.Changed("span") {
		cfg.Viewport.Span = span
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	// width and height back several commands with different defaults, so an
	// unset flag reads its own default rather than the shared variable.
	sizeFlag := func(name string) (int, bool) {
		fl := flags.Lookup(name)
		if fl == nil || !(fl.Changed || configFile == "") {
			return 0, false
		}
		raw := fl.DefValue
		if fl.Changed {
			raw = fl.Value.String()
		}
		v, err := strconv.Atoi(raw)
		return v, err == nil
	}
	if v, ok := sizeFlag("width"); ok {
		cfg.Width = v
	}
	if v, ok := sizeFlag("height"); ok {
		cfg.Height = v
	}
	if flags.Lookup("output") != nil && (flags.Changed("output") || configFile == "") {
		cfg.Output = output
	}
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

// computeField builds and fills a field for cfg, logging the elapsed time.
func computeField(ctx context.Context, cfg *config.Config) (*field.Field, time.Duration, error) {
	logger := loggerFromContext(ctx)
	f, err := field.New(cfg.Width, cfg.Height,
		field.WithBackend(compute.AutoSelect(cfg.Workers)),
		field.WithLogger(logger))
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	if err := f.Compute(ctx, cfg.Viewport); err != nil {
		return nil, 0, err
	}
	return f, time.Since(start), nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	f, elapsed, err := computeField(ctx, cfg)
	if err != nil {
		return err
	}

	sink := raster.NewImageSink(cfg.Width, cfg.Height)
	f.Render(sink)
	if err := raster.WriteFile(cfg.Output, sink.Image()); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	prog.done("rendered", "file", cfg.Output, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "viewport", cfg.Viewport.String())

	if !save {
		return nil
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Run{
		Preset:  name,
		Field:   f,
		Image:   sink.Image(),
		Elapsed: elapsed,
		Metrics: metrics.Collect(f.Counts(), metrics.Defaults()...),
	})
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run id: %s\n", runID)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	srv := server.New(compute.AutoSelect(workers), loggerFromContext(ctx))
	return srv.ListenAndServe(ctx, addr)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	f, elapsed, err := computeField(ctx, cfg)
	if err != nil {
		return err
	}
	counts := f.Counts()

	hist, err := metrics.NewHistogram(bins, field.MaxIter)
	if err != nil {
		return err
	}
	hist.ObserveAll(counts)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "viewport: %s\n", cfg.Viewport)
	fmt.Fprintf(out, "size:     %dx%d (%v)\n", cfg.Width, cfg.Height, elapsed.Round(time.Millisecond))
	values := metrics.Collect(counts, metrics.Defaults()...)
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(out, "  %s: %.4f\n", n, values[n])
	}
	fmt.Fprintf(out, "  bounded cells: %d\n\n", hist.Bounded)

	graph := asciigraph.Plot(hist.Series(),
		asciigraph.Height(12),
		asciigraph.Caption(fmt.Sprintf("escape iterations, %d bins over 1..%d", bins, field.MaxIter)))
	fmt.Fprintln(out, graph)
	return nil
}

// resolveDataDir picks the run directory with the same precedence as
// resolveConfig: an explicit --data, then the config file, then the default.
func resolveDataDir(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("data") || configFile == "" {
		return dataDir, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.DataDir, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSIZE\tVIEWPORT\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%s\n",
			run.ID, run.Preset, run.Width, run.Height, run.Viewport, run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("load run %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id:       %s\n", meta.ID)
	if meta.Preset != "" {
		fmt.Fprintf(out, "preset:   %s\n", meta.Preset)
	}
	fmt.Fprintf(out, "viewport: %s\n", meta.Viewport)
	fmt.Fprintf(out, "size:     %dx%d\n", meta.Width, meta.Height)
	fmt.Fprintf(out, "backend:  %s (%v)\n", meta.Backend, meta.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "image:    %s\n", st.ImagePath(meta.ID))
	fmt.Fprintln(out, "metrics:")
	for name, val := range meta.Metrics {
		fmt.Fprintf(out, "  %s: %.4f\n", name, val)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	backends := []compute.Backend{compute.NewSerialBackend(), compute.AutoSelect(cfg.Workers)}
	out := cmd.OutOrStdout()
	var reference []uint16

	for _, b := range backends {
		f, err := field.New(cfg.Width, cfg.Height, field.WithBackend(b))
		if err != nil {
			return err
		}

		var total time.Duration
		for i := 0; i < benchRuns; i++ {
			start := time.Now()
			if err := f.Compute(ctx, cfg.Viewport); err != nil {
				return err
			}
			total += time.Since(start)
		}

		counts := f.Counts()
		if reference == nil {
			reference = counts
		} else if !equalCounts(reference, counts) {
			return fmt.Errorf("backend %s disagrees with serial result", b.Name())
		}

		avg := total / time.Duration(max(benchRuns, 1))
		fmt.Fprintf(out, "%-8s %v/run (%.1f Mpx/s)\n", b.Name(), avg.Round(time.Microsecond),
			float64(cfg.Width*cfg.Height)/avg.Seconds()/1e6)
	}
	return nil
}

func equalCounts(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
