package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/zetasim/internal/analysis"
	"github.com/san-kum/zetasim/internal/compute"
	"github.com/san-kum/zetasim/internal/config"
	"github.com/san-kum/zetasim/internal/export"
	"github.com/san-kum/zetasim/internal/field"
	"github.com/san-kum/zetasim/internal/grid"
	"github.com/san-kum/zetasim/internal/server"
	"github.com/san-kum/zetasim/internal/storage"
	"github.com/san-kum/zetasim/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir          string
	reMin            float64
	reMax            float64
	imMin            float64
	imMax            float64
	step             float64
	alpha            float64
	terms            int
	zeroThreshold    float64
	lineTolerance    float64
	potentialCeiling float64
	poleEpsilon      float64
	backendName      string
	configFile       string
	preset           string
	// Export destinations
	csvPath   string
	jsonPath  string
	pngPath   string
	svgPath   string
	saveRun   bool
	showChart bool
	// Serve options
	addr      string
	maxPoints int
)

// main is the entry point for the zetasim CLI; it registers commands and flags, launches the terminal explorer when no subcommand is given, and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "zetasim",
		Short: "riemann zeta potential field lab",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to the interactive explorer when no command given
			if err := exploreField(cmd, args); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutputDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate the potential field",
		RunE:  runField,
	}
	runCmd.Flags().Float64Var(&reMin, "re-min", config.DefaultReMin, "window sigma minimum")
	runCmd.Flags().Float64Var(&reMax, "re-max", config.DefaultReMax, "window sigma maximum")
	runCmd.Flags().Float64Var(&imMin, "im-min", config.DefaultImMin, "window t minimum")
	runCmd.Flags().Float64Var(&imMax, "im-max", config.DefaultImMax, "window t maximum")
	runCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "grid step")
	runCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "collapse weight")
	runCmd.Flags().IntVar(&terms, "terms", config.DefaultTerms, "zeta series terms")
	runCmd.Flags().Float64Var(&zeroThreshold, "zero-threshold", config.DefaultZeroThreshold, "near-zero threshold on |zeta|")
	runCmd.Flags().Float64Var(&lineTolerance, "line-tolerance", config.DefaultLineTolerance, "critical line tolerance")
	runCmd.Flags().Float64Var(&potentialCeiling, "ceiling", config.DefaultPotentialCeiling, "potential ceiling")
	runCmd.Flags().Float64Var(&poleEpsilon, "pole-epsilon", config.DefaultPoleEpsilon, "pole tagging distance")
	runCmd.Flags().StringVar(&backendName, "backend", config.DefaultBackend, "compute backend (auto, cpu, serial)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write field CSV to path")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write field JSON to path")
	runCmd.Flags().StringVar(&pngPath, "png", "", "write heatmap PNG to path")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write heatmap SVG to path")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save run to the data directory")
	runCmd.Flags().BoolVar(&showChart, "chart", false, "print the critical-line |zeta| chart")

	zerosCmd := &cobra.Command{
		Use:   "zeros",
		Short: "scan for zero candidates on the critical line",
		RunE:  scanZeros,
	}
	zerosCmd.Flags().Float64Var(&reMin, "re-min", config.DefaultReMin, "window sigma minimum")
	zerosCmd.Flags().Float64Var(&reMax, "re-max", config.DefaultReMax, "window sigma maximum")
	zerosCmd.Flags().Float64Var(&imMin, "im-min", config.DefaultImMin, "window t minimum")
	zerosCmd.Flags().Float64Var(&imMax, "im-max", config.DefaultImMax, "window t maximum")
	zerosCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "grid step")
	zerosCmd.Flags().IntVar(&terms, "terms", config.DefaultTerms, "zeta series terms")
	zerosCmd.Flags().Float64Var(&zeroThreshold, "zero-threshold", config.DefaultZeroThreshold, "near-zero threshold on |zeta|")
	zerosCmd.Flags().StringVar(&backendName, "backend", config.DefaultBackend, "compute backend (auto, cpu, serial)")
	zerosCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	zerosCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive terminal heatmap explorer",
		RunE:  exploreField,
	}
	exploreCmd.Flags().Float64Var(&reMin, "re-min", config.DefaultReMin, "window sigma minimum")
	exploreCmd.Flags().Float64Var(&reMax, "re-max", config.DefaultReMax, "window sigma maximum")
	exploreCmd.Flags().Float64Var(&imMin, "im-min", config.DefaultImMin, "window t minimum")
	exploreCmd.Flags().Float64Var(&imMax, "im-max", config.DefaultImMax, "window t maximum")
	exploreCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "grid step")
	exploreCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "collapse weight")
	exploreCmd.Flags().IntVar(&terms, "terms", config.DefaultTerms, "zeta series terms")
	exploreCmd.Flags().StringVar(&backendName, "backend", config.DefaultBackend, "compute backend (auto, cpu, serial)")
	exploreCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	exploreCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the web dashboard and API",
		RunE:  serveHTTP,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&maxPoints, "max-points", server.DefaultMaxPoints, "per-request grid point limit")
	serveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&csvPath, "csv", "", "write field CSV to path")
	exportCmd.Flags().StringVar(&jsonPath, "json", "", "write field JSON to path")
	exportCmd.Flags().StringVar(&pngPath, "png", "", "write heatmap PNG to path")
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write heatmap SVG to path")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark compute backends",
		RunE:  benchBackends,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tWINDOW\tSTEP\tALPHA")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\tsigma %.2f..%.2f, t %.2f..%.2f\t%.4g\t%.2f\n",
					name,
					cfg.Domain.ReMin, cfg.Domain.ReMax,
					cfg.Domain.ImMin, cfg.Domain.ImMax,
					cfg.Domain.Step, cfg.Field.Alpha)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "zetasim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, zerosCmd, exploreCmd, serveCmd, listCmd, plotCmd, exportCmd, benchCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig assembles the run configuration from preset, config file and
// flags, in rising precedence. Explicitly set flags always win.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		applyConfig(cmd, cfg)
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		applyConfig(cmd, cfg)
	}

	cfg := config.DefaultConfig()
	cfg.Domain = config.DomainConfig{ReMin: reMin, ReMax: reMax, ImMin: imMin, ImMax: imMax, Step: step}
	cfg.Field = config.FieldConfig{
		Alpha:            alpha,
		Terms:            terms,
		ZeroThreshold:    zeroThreshold,
		LineTolerance:    lineTolerance,
		PotentialCeiling: potentialCeiling,
		PoleEpsilon:      poleEpsilon,
	}
	cfg.Backend = backendName
	return cfg, nil
}

// applyConfig copies cfg into the flag variables, skipping flags the user
// set explicitly.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("re-min") {
		reMin = cfg.Domain.ReMin
	}
	if !cmd.Flags().Changed("re-max") {
		reMax = cfg.Domain.ReMax
	}
	if !cmd.Flags().Changed("im-min") {
		imMin = cfg.Domain.ImMin
	}
	if !cmd.Flags().Changed("im-max") {
		imMax = cfg.Domain.ImMax
	}
	if !cmd.Flags().Changed("step") {
		step = cfg.Domain.Step
	}
	if !cmd.Flags().Changed("alpha") {
		alpha = cfg.Field.Alpha
	}
	if !cmd.Flags().Changed("terms") {
		terms = cfg.Field.Terms
	}
	if !cmd.Flags().Changed("zero-threshold") {
		zeroThreshold = cfg.Field.ZeroThreshold
	}
	if !cmd.Flags().Changed("line-tolerance") {
		lineTolerance = cfg.Field.LineTolerance
	}
	if !cmd.Flags().Changed("ceiling") {
		potentialCeiling = cfg.Field.PotentialCeiling
	}
	if !cmd.Flags().Changed("pole-epsilon") {
		poleEpsilon = cfg.Field.PoleEpsilon
	}
	if !cmd.Flags().Changed("backend") {
		backendName = cfg.Backend
	}
}

func evaluateField(cfg *config.Config) (*field.Result, error) {
	g, err := grid.Build(cfg.Rect())
	if err != nil {
		return nil, err
	}

	be, err := compute.Select(cfg.Backend)
	if err != nil {
		return nil, err
	}
	defer be.Cleanup()

	return field.Evaluate(g, cfg.Params(), be)
}

func runField(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	g, err := grid.Build(cfg.Rect())
	if err != nil {
		return err
	}

	be, err := compute.Select(cfg.Backend)
	if err != nil {
		return err
	}
	defer be.Cleanup()

	fmt.Printf("evaluating %dx%d grid (%d points) on %s...\n", g.Rows(), g.Cols(), g.NumPoints(), be.Name())

	res, err := field.Evaluate(g, cfg.Params(), be)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", res.Elapsed)

	sum := analysis.Summarize(res)
	fmt.Println("\nsummary:")
	fmt.Printf("  min |zeta|: %.6g\n", sum.MinZetaAbs)
	fmt.Printf("  max |zeta|: %.6g\n", sum.MaxZetaAbs)
	fmt.Printf("  mean total: %.6g\n", sum.MeanTotal)
	fmt.Printf("  singular points: %d\n", sum.Singular)
	fmt.Printf("  zero candidates: %d\n", sum.Candidates)

	if len(res.Candidates) > 0 {
		fmt.Println("\ncandidates:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SIGMA\tT\t|ZETA|")
		for _, c := range res.Candidates {
			fmt.Fprintf(w, "%.4f\t%.4f\t%.6g\n", c.Sigma, c.T, c.ZetaAbs)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if showChart {
		profile := analysis.CriticalLine(res)
		graph := asciigraph.Plot(profile.Mags,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("|zeta| along sigma=%.2f", profile.Sigma)),
		)
		fmt.Println()
		fmt.Println(graph)
	}

	if err := writeOutputs(res); err != nil {
		return err
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func writeOutputs(res *field.Result) error {
	if csvPath != "" {
		if err := export.SaveCSV(csvPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := export.ExportJSON(jsonPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	if pngPath != "" {
		if err := export.SavePNG(pngPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	if svgPath != "" {
		if err := export.SaveSVG(svgPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func scanZeros(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("scanning sigma %.2f..%.2f, t %.2f..%.2f (step %.4g)...\n",
		cfg.Domain.ReMin, cfg.Domain.ReMax, cfg.Domain.ImMin, cfg.Domain.ImMax, cfg.Domain.Step)

	res, err := evaluateField(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", res.Elapsed)

	profile := analysis.CriticalLine(res)
	graph := asciigraph.Plot(profile.Mags,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("|zeta| along sigma=%.2f", profile.Sigma)),
	)
	fmt.Println(graph)
	fmt.Println()

	minima := profile.Minima(cfg.Field.ZeroThreshold)
	if len(minima) == 0 {
		fmt.Println("no zero candidates in this window")
		return nil
	}

	fmt.Println("zero candidates (refined):")
	for i, t := range minima {
		fmt.Printf("  %d: t = %.6f\n", i+1, t)
	}

	return nil
}

func exploreField(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	res, err := evaluateField(cfg)
	if err != nil {
		return err
	}

	return tui.Explore(res)
}

func serveHTTP(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	srv := server.New(cfg, st, logger.Sugar(), maxPoints)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sig:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tWINDOW\tSTEP\tPOINTS\tCANDIDATES")

	for _, run := range runs {
		p := run.Parameters
		fmt.Fprintf(w, "%s\t%s\tsigma %.2f..%.2f, t %.2f..%.2f\t%.4g\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			p.ReMin, p.ReMax, p.ImMin, p.ImMax,
			p.Step,
			run.Rows*run.Cols,
			run.Candidates,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	res, err := st.LoadField(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("window: sigma %.2f..%.2f, t %.2f..%.2f (step %.4g)\n",
		meta.Parameters.ReMin, meta.Parameters.ReMax,
		meta.Parameters.ImMin, meta.Parameters.ImMax, meta.Parameters.Step)
	fmt.Printf("points: %d\n\n", meta.Rows*meta.Cols)

	profile := analysis.CriticalLine(res)
	graph := asciigraph.Plot(profile.Mags,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("|zeta| along sigma=%.2f", profile.Sigma)),
	)
	fmt.Println(graph)

	if len(res.Candidates) > 0 {
		fmt.Println("\ncandidates:")
		for _, c := range res.Candidates {
			fmt.Printf("  t = %.4f  |zeta| = %.6g\n", c.T, c.ZetaAbs)
		}
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)

	if csvPath == "" && jsonPath == "" && pngPath == "" && svgPath == "" {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	res, err := st.LoadField(runID)
	if err != nil {
		return err
	}
	return writeOutputs(res)
}

func benchBackends(cmd *cobra.Command, args []string) error {
	windows := []struct {
		name string
		rect grid.Rect
	}{
		{"small", grid.Rect{ReMin: 0.3, ReMax: 0.7, ImMin: 0, ImMax: 10, Step: 0.1}},
		{"medium", grid.Rect{ReMin: 0.3, ReMax: 0.7, ImMin: 0, ImMax: 30, Step: 0.05}},
		{"large", grid.Rect{ReMin: 0.3, ReMax: 0.7, ImMin: 0, ImMax: 50, Step: 0.025}},
	}
	backends := []string{"serial", "cpu"}

	params := field.DefaultParams()

	fmt.Println("benchmarking backends")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WINDOW\tPOINTS\tBACKEND\tTIME\tPOINTS/SEC")

	for _, win := range windows {
		g, err := grid.Build(win.rect)
		if err != nil {
			return err
		}
		for _, name := range backends {
			be, err := compute.Select(name)
			if err != nil {
				return err
			}
			res, err := field.Evaluate(g, params, be)
			be.Cleanup()
			if err != nil {
				return err
			}
			pointsPerSec := float64(g.NumPoints()) / res.Elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%d\t%s\t%v\t%.0f\n", win.name, g.NumPoints(), name, res.Elapsed, pointsPerSec)
		}
	}

	return w.Flush()
}
