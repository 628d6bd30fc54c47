package config

const (
	day  = 86400.0
	year = 365.25 * day
)

var Presets = map[string]map[string]*Config{
	"solar_system": {
		"realtime": {
			Scenario: "solar_system", Speed: 1, Dt: 60, Duration: day,
		},
		"year": {
			Scenario: "solar_system", Start: "2025-01-01T00:00:00Z", Speed: 30 * day, Dt: day, Duration: year,
		},
		"grand_tour": {
			Scenario: "solar_system", Start: "2000-01-01T12:00:00Z", Speed: year, Dt: 30 * day, Duration: 250 * year,
		},
	},
	"inner": {
		"year": {
			Scenario: "inner", Start: "2025-01-01T00:00:00Z", Speed: 7 * day, Dt: 6 * 3600, Duration: year,
		},
		"mars_window": {
			Scenario: "inner", Start: "2026-01-01T00:00:00Z", Speed: 14 * day, Dt: day, Duration: 3 * year,
		},
	},
	"outer": {
		"century": {
			Scenario: "outer", Start: "2000-01-01T12:00:00Z", Speed: 5 * year, Dt: 60 * day, Duration: 100 * year,
		},
	},
	"earth_moon": {
		"month": {
			Scenario: "earth_moon", Start: "2008-09-20T12:25:40Z", Speed: 3600, Dt: 600, Duration: 30 * day,
		},
		"iss_pass": {
			Scenario: "earth_moon", Start: "2008-09-20T12:25:40Z", Speed: 60, Dt: 10, Duration: 3 * 3600,
		},
	},
	"example": {
		"demo": {
			Scenario: "example", Start: "2000-01-01T12:00:00Z", Speed: 3600, Dt: 60, Duration: day,
		},
	},
}

// GetPreset returns a copy of the preset with defaults filled in, or nil.
func GetPreset(scenario, preset string) *Config {
	presets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := presets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario
	cfg.Start = p.Start
	cfg.Speed = p.Speed
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	return cfg
}

func ListPresets(scenario string) []string {
	presets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
