package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario         = "solar_system"
	DefaultSpeed            = 86400.0
	DefaultDt               = 3600.0
	DefaultDuration         = 365.25 * 86400
	DefaultFrameRate        = 30
	DefaultWorkers          = 4
	DefaultTrajectoryOrigin = "2010-01-01T00:00:00Z"
	DefaultTheme            = "cyberpunk"
)

type Config struct {
	Scenario         string    `yaml:"scenario"`
	Start            string    `yaml:"start"`
	Speed            float64   `yaml:"speed"`
	Paused           bool      `yaml:"paused"`
	Dt               float64   `yaml:"dt"`
	Duration         float64   `yaml:"duration"`
	FrameRate        int       `yaml:"frame_rate"`
	BodiesFile       string    `yaml:"bodies_file"`
	TrajectoriesFile string    `yaml:"trajectories_file"`
	TrajectoryOrigin string    `yaml:"trajectory_origin"`
	Workers          int       `yaml:"workers"`
	Log              LogConfig `yaml:"log"`
	MetricsAddr      string    `yaml:"metrics_addr"`
	Theme            string    `yaml:"theme"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:         DefaultScenario,
		Speed:            DefaultSpeed,
		Dt:               DefaultDt,
		Duration:         DefaultDuration,
		FrameRate:        DefaultFrameRate,
		TrajectoryOrigin: DefaultTrajectoryOrigin,
		Workers:          DefaultWorkers,
		Log:              LogConfig{Level: "info", Format: "text"},
		Theme:            DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges and that time fields parse.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %f", c.Duration)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.StartTime(time.Now); err != nil {
		return err
	}
	if _, err := c.Origin(); err != nil {
		return err
	}
	return nil
}

// StartTime parses Start as RFC 3339; an empty value means now().
func (c *Config) StartTime(now func() time.Time) (time.Time, error) {
	if c.Start == "" {
		return now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("start: %w", err)
	}
	return t, nil
}

// Origin is the time that trajectory keys are measured from.
func (c *Config) Origin() (time.Time, error) {
	s := c.TrajectoryOrigin
	if s == "" {
		s = DefaultTrajectoryOrigin
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("trajectory_origin: %w", err)
	}
	return t, nil
}

// FrameInterval is the wall time between live frames.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(c.FrameRate)
}
