package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/trajectory"
)

// env is everything a command needs once flags and config are resolved.
type env struct {
	cfg          *config.Config
	logger       logging.Logger
	collector    *metrics.Collector
	registry     *bodies.Registry
	trajectories *trajectory.Store
	sim          *sim.Simulator
}

// loadConfig layers defaults, the preset, the config file and finally the
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	scenario := config.DefaultScenario
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		scenario = fileCfg.Scenario
	}
	if changed(cmd, "scenario") {
		scenario = scenarioName
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadOver(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.Scenario = scenario

	if changed(cmd, "start") {
		cfg.Start = start
	}
	if changed(cmd, "dt") {
		cfg.Dt = dt
	}
	if changed(cmd, "time") {
		cfg.Duration = duration
	}
	if changed(cmd, "speed") {
		cfg.Speed = speed
	}
	if changed(cmd, "paused") {
		cfg.Paused = paused
	}
	if changed(cmd, "fps") {
		cfg.FrameRate = frameRate
	}
	if changed(cmd, "theme") {
		cfg.Theme = theme
	}
	if changed(cmd, "workers") {
		cfg.Workers = workers
	}
	if changed(cmd, "bodies") {
		cfg.BodiesFile = bodiesFile
	}
	if changed(cmd, "trajectories") {
		cfg.TrajectoriesFile = trajectoriesFile
	}
	if changed(cmd, "log-level") {
		cfg.Log.Level = logLevel
	}
	if changed(cmd, "log-format") {
		cfg.Log.Format = logFormat
	}
	if changed(cmd, "metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg:          cfg,
		logger:       logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}),
		trajectories: trajectory.NewStore(),
	}
	ctx := cmd.Context()

	if cfg.BodiesFile != "" {
		e.registry, err = bodies.LoadFile(cfg.BodiesFile)
	} else {
		e.registry, err = bodies.Catalog(cfg.Scenario)
	}
	if err != nil {
		return nil, err
	}

	if cfg.TrajectoriesFile != "" {
		origin, err := cfg.Origin()
		if err != nil {
			return nil, err
		}
		set, err := e.trajectories.LoadFile(cfg.TrajectoriesFile, origin)
		if err != nil {
			return nil, fmt.Errorf("load trajectories: %w", err)
		}
		e.logger.Info(ctx, "trajectories loaded",
			logging.String("file", cfg.TrajectoriesFile), logging.Any("bodies", set.Names()))
	}

	reg := prometheus.NewRegistry()
	e.collector, err = metrics.NewCollector(reg)
	if err != nil {
		return nil, err
	}
	if cfg.MetricsAddr != "" {
		serveMetrics(ctx, cfg.MetricsAddr, e.collector, e.logger)
	}

	e.sim, err = sim.New(e.registry,
		sim.WithTrajectories(e.trajectories),
		sim.WithCollector(e.collector),
		sim.WithLogger(e.logger),
		sim.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func serveMetrics(ctx context.Context, addr string, c *metrics.Collector, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info(ctx, "metrics listening", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "metrics server failed", logging.Err(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
