package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/trajectory"
	"github.com/san-kum/orrery/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	// Overrides for config values
	scenarioName     string
	start            string
	dt               float64
	duration         float64
	speed            float64
	paused           bool
	frameRate        int
	theme            string
	workers          int
	bodiesFile       string
	trajectoriesFile string
	logLevel         string
	logFormat        string
	metricsAddr      string
	// Command options
	evalAt     string
	pairs      []string
	plotBody   string
	plotFrom   string
	outFile    string
	exportFmt  string
	windowFrom string
	windowTo   string
	svgWidth   int
	svgHeight  int
	benchIters int
)

// main registers the orrery commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "orbital position engine and terminal orrery",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orrery", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration for the scenario")
	pf.StringVar(&scenarioName, "scenario", config.DefaultScenario, "body catalog: "+strings.Join(bodies.Scenarios(), ", "))
	pf.StringVar(&start, "start", "", "simulation start (RFC 3339, empty for now)")
	pf.IntVar(&workers, "workers", config.DefaultWorkers, "evaluation goroutines per frame")
	pf.StringVar(&bodiesFile, "bodies", "", "YAML body list replacing the catalog")
	pf.StringVar(&trajectoriesFile, "trajectories", "", "trajectory JSON for sampled bodies")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	evalCmd := &cobra.Command{
		Use:   "eval [body]",
		Short: "evaluate one body's position",
		Args:  cobra.ExactArgs(1),
		RunE:  evalBody,
	}
	evalCmd.Flags().StringVar(&evalAt, "at", "", "evaluation time (RFC 3339, default start)")

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list bodies of the scenario",
		RunE:  listBodies,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate every body over a time range and store the run",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	runCmd.Flags().StringSliceVar(&pairs, "pair", nil, "track distance between two bodies, as A:B (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distances of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "", "body to plot (default: every orbiting body)")
	plotCmd.Flags().StringVar(&plotFrom, "from", "", "measure distance from this body (default: parent)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata or positions as trajectory JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFmt, "format", "json", "output format: json (metadata) or trajectory")
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&windowFrom, "from", "", "first date kept, YYYY-MM-DD (trajectory format)")
	exportCmd.Flags().StringVar(&windowTo, "to", "", "last date kept, YYYY-MM-DD (trajectory format)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "draw a stored run as top-down SVG tracks",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the live terminal orrery",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "simulated seconds per second")
	liveCmd.Flags().BoolVar(&paused, "paused", false, "start paused")
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "theme: "+strings.Join(viz.ThemeNames(), ", "))

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the evaluators",
		RunE:  benchEvaluators,
	}
	benchCmd.Flags().IntVar(&benchIters, "n", 100000, "evaluations per case")

	rootCmd.AddCommand(evalCmd, bodiesCmd, presetsCmd, runCmd, listCmd, plotCmd, exportCmd, svgCmd, liveCmd, benchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func evalBody(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	b, ok := e.registry.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown body: %s (available: %v)", args[0], e.registry.Names())
	}

	t, err := e.cfg.StartTime(time.Now)
	if err != nil {
		return err
	}
	if evalAt != "" {
		if t, err = time.Parse(time.RFC3339, evalAt); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	frame := e.sim.Evaluate(t)
	st, _ := frame.Body(b.Name)
	if st.Err != nil {
		return st.Err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "body\t%s\n", b.Name)
	fmt.Fprintf(w, "orbit\t%s\n", st.Kind)
	fmt.Fprintf(w, "time\t%s\n", t.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "julian date\t%.6f\n", julian.TimeToJD(t))
	if b.Parent != "" {
		fmt.Fprintf(w, "parent\t%s\n", b.Parent)
		fmt.Fprintf(w, "local\t%s\n", formatVec(st.Local))
		fmt.Fprintf(w, "distance\t%.3f km\n", st.Local.Norm())
	}
	fmt.Fprintf(w, "world\t%s\n", formatVec(st.Position))
	if d, err := e.sim.Descriptor(b); err == nil {
		if v, err := orbit.Velocity(d, t, 0); err == nil {
			fmt.Fprintf(w, "velocity\t%s (%.4f km/s)\n", formatVec(v), v.Norm())
		}
	}
	return w.Flush()
}

func formatVec(v orbit.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

func listBodies(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARENT\tORBIT\tRADIUS\tMASS\tPERIOD")
	for _, b := range e.sim.Bodies() {
		parent := b.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f km\t%.3e kg\t%s\n",
			b.Name, parent, b.Orbit.Kind, b.Radius, b.Mass, formatPeriod(period(e, b)))
	}
	return w.Flush()
}

func period(e *env, b bodies.Body) time.Duration {
	d, err := e.sim.Descriptor(b)
	if err != nil {
		return 0
	}
	switch d.Kind {
	case orbit.KindKeplerian:
		return d.Keplerian.Period()
	case orbit.KindSampled:
		return time.Duration(d.Sampled.Period() * float64(time.Second))
	case orbit.KindTLE:
		return d.TLE.Period()
	}
	return 0
}

func formatPeriod(p time.Duration) string {
	switch {
	case p <= 0:
		return "-"
	case p >= 48*time.Hour:
		return fmt.Sprintf("%.2f d", p.Hours()/24)
	default:
		return p.Round(time.Second).String()
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := bodies.Scenarios()
	if len(args) > 0 {
		scenarios = args[:1]
	}
	for _, s := range scenarios {
		presets := config.ListPresets(s)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", s)
			continue
		}
		sort.Strings(presets)
		fmt.Printf("presets for %s:\n", s)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	t0, err := e.cfg.StartTime(time.Now)
	if err != nil {
		return err
	}

	e.sim.AddMetric(sim.NewFailureRate())
	for _, p := range pairs {
		a, b, ok := strings.Cut(p, ":")
		if !ok {
			return fmt.Errorf("--pair %q: want A:B", p)
		}
		e.sim.AddMetric(sim.NewMeanDistance(a, b))
		e.sim.AddMetric(sim.NewClosestApproach(a, b))
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runCfg := sim.Config{Start: t0, Dt: e.cfg.Dt, Duration: e.cfg.Duration}
	fmt.Printf("running %s from %s...\n", e.cfg.Scenario, t0.UTC().Format(time.RFC3339))
	began := time.Now()

	result, err := e.sim.Run(ctx, runCfg)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		e.logger.Warn(ctx, "run interrupted, saving partial result", logging.Err(err))
	}
	elapsed := time.Since(began)

	runID, err := st.Save(e.cfg.Scenario, runCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("failures: %d\n", len(result.Errors))
	for i, ferr := range result.Errors {
		if i == 5 {
			fmt.Printf("  ... %d more\n", len(result.Errors)-i)
			break
		}
		fmt.Printf("  %v\n", ferr)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPARENT\tMIN KM\tMAX KM\tMEAN KM")
	for _, s := range result.Summary() {
		if s.Parent == "" {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%.4g\t%.4g\n", s.Name, s.Parent, s.Min, s.Max, s.Mean)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENARIO\tSTART\tDURATION\tDT\tSTEPS\tFAILURES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%.0fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Start.UTC().Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Failures,
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
	pos, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}
	if len(pos.Values) == 0 {
		return fmt.Errorf("no data to plot")
	}

	index := make(map[string]int, len(pos.Bodies))
	for i, name := range pos.Bodies {
		index[name] = i
	}
	parents := make(map[string]string, len(meta.Bodies))
	for i, name := range meta.Bodies {
		if i < len(meta.Parents) {
			parents[name] = meta.Parents[i]
		}
	}

	targets := pos.Bodies
	if plotBody != "" {
		if _, ok := index[plotBody]; !ok {
			return fmt.Errorf("unknown body: %s (available: %v)", plotBody, pos.Bodies)
		}
		targets = []string{plotBody}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(pos.Values))

	const maxPlots = 6
	plotted := 0
	for _, name := range targets {
		from := plotFrom
		if from == "" {
			from = parents[name]
		}
		if from == "" && plotBody == "" {
			continue
		}
		if plotted == maxPlots {
			break
		}

		j := index[name]
		k, hasFrom := index[from]
		if from != "" && !hasFrom {
			return fmt.Errorf("unknown body: %s", from)
		}
		data := make([]float64, len(pos.Values))
		for i, row := range pos.Values {
			if hasFrom {
				data[i] = row[j].DistanceTo(row[k])
			} else {
				data[i] = row[j].Norm()
			}
		}

		caption := fmt.Sprintf("%s distance (km)", name)
		if from != "" {
			caption = fmt.Sprintf("%s to %s (km)", name, from)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch exportFmt {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	case "trajectory":
		pos, err := st.LoadPositions(runID)
		if err != nil {
			return err
		}
		tables := positionTables(meta.Start, pos)
		if windowFrom != "" || windowTo != "" {
			if windowFrom == "" || windowTo == "" {
				return fmt.Errorf("--from and --to must be given together")
			}
			for name, tbl := range tables {
				if tables[name], err = trajectory.Between(tbl, windowFrom, windowTo); err != nil {
					return err
				}
			}
		}
		return trajectory.WriteJSON(out, tables)
	}
	return fmt.Errorf("unknown format: %s (available: json, trajectory)", exportFmt)
}

// positionTables re-keys stored world positions as seconds from the
// trajectory reference epoch.
func positionTables(runStart time.Time, pos *storage.Positions) map[string]orbit.Table {
	base := orbit.SecondsSince(runStart, trajectory.ReferenceEpoch)
	tables := make(map[string]orbit.Table, len(pos.Bodies))
	for j, name := range pos.Bodies {
		tbl := make(orbit.Table, len(pos.Values))
		for i, row := range pos.Values {
			tbl[base+pos.Offsets[i]] = row[j]
		}
		tables[name] = tbl
	}
	return tables
}

func svgRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	pos, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}

	colors := make(map[string]string)
	if reg, err := bodies.Catalog(meta.Scenario); err == nil {
		for _, b := range reg.Bodies() {
			colors[b.Name] = b.Color
		}
	}

	tracks := make([]export.Track, len(pos.Bodies))
	for j, name := range pos.Bodies {
		points := make([]orbit.Vec3, len(pos.Values))
		for i, row := range pos.Values {
			points[i] = row[j]
		}
		tracks[j] = export.Track{Name: name, Color: colors[name], Points: orbit.ReducePoints(points, orbit.MaxPathPoints)}
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.TracksToSVG(tracks, svgWidth, svgHeight)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	t0, err := e.cfg.StartTime(time.Now)
	if err != nil {
		return err
	}
	opts := []clock.Option{clock.WithSpeed(e.cfg.Speed)}
	if e.cfg.Paused {
		opts = append(opts, clock.WithPaused())
	}
	c := clock.New(t0, opts...)

	snapshot := func(canvas *viz.Canvas, t time.Time) (string, error) {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return "", err
		}
		path := filepath.Join(dataDir, fmt.Sprintf("snapshot_%s.svg", t.UTC().Format("20060102T150405")))
		fill := string(viz.GetTheme(e.cfg.Theme).Primary)
		return path, os.WriteFile(path, []byte(export.CanvasToSVG(canvas, 4, fill)), 0644)
	}

	m := viz.NewModel(e.sim, c,
		viz.WithTheme(e.cfg.Theme),
		viz.WithFrameInterval(e.cfg.FrameInterval()),
		viz.WithSnapshot(snapshot),
		viz.WithLogger(e.logger),
	)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchEvaluators(cmd *cobra.Command, args []string) error {
	if benchIters <= 0 {
		return fmt.Errorf("-n must be positive")
	}
	t0 := bodies.J2000

	kep := orbit.Keplerian(orbit.KeplerianOrbit{
		SemiMajorAxis: 149.598e6, Eccentricity: 0.0167, Inclination: 7.155,
		MeanMotion: 1.99e-7, Epoch: t0,
	})

	keys := make([]float64, 1000)
	samples := make([]orbit.Vec3, len(keys))
	for i := range keys {
		keys[i] = float64(i) * 60
		samples[i] = orbit.Vec3{X: float64(i), Y: float64(-i)}
	}
	tr, err := orbit.NewSampledTrajectoryFromSamples(keys, samples)
	if err != nil {
		return err
	}
	sampled := orbit.Sampled(tr, t0)

	tle, err := orbit.ParseTLE(bodies.ISSLine1, bodies.ISSLine2)
	if err != nil {
		return err
	}
	sat := orbit.Satellite(tle)

	reg, err := bodies.Catalog("solar_system")
	if err != nil {
		return err
	}
	s, err := sim.New(reg, sim.WithWorkers(workers))
	if err != nil {
		return err
	}

	cases := []struct {
		name string
		fn   func(t time.Time) error
	}{
		{"keplerian", func(t time.Time) error { _, err := kep.Evaluate(t); return err }},
		{"sampled", func(t time.Time) error { _, err := sampled.Evaluate(t); return err }},
		{"tle", func(t time.Time) error { _, err := sat.Evaluate(tle.Epoch.Add(t.Sub(t0))); return err }},
		{"frame (solar_system)", func(t time.Time) error { s.Evaluate(t); return nil }},
	}

	fmt.Printf("benchmarking evaluators (%d evaluations each)\n\n", benchIters)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tEVALS\tTIME\tNS/EVAL\tEVALS/SEC")

	for _, c := range cases {
		began := time.Now()
		for i := 0; i < benchIters; i++ {
			if err := c.fn(t0.Add(time.Duration(i%1440) * time.Minute)); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
		}
		elapsed := time.Since(began)
		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.0f\n",
			c.name, benchIters, elapsed.Round(time.Microsecond),
			float64(elapsed.Nanoseconds())/float64(benchIters),
			float64(benchIters)/elapsed.Seconds())
	}

	return w.Flush()
}
