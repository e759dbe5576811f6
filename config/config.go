package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/fxdesk/internal/logger"
	"github.com/rustyeddy/fxdesk/market"
	"github.com/rustyeddy/fxdesk/sim"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. FXDESK_SERVER_ADDR.
const EnvPrefix = "FXDESK"

// Config represents the complete desk configuration
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Strategies StrategiesConfig `json:"strategies" yaml:"strategies"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// SimulationConfig contains tick pacing and churn parameters
type SimulationConfig struct {
	Interval          string  `json:"interval" yaml:"interval"` // e.g. "500ms"
	Seed              uint64  `json:"seed" yaml:"seed"`         // 0 picks a time-based seed
	OpenProbability   float64 `json:"open_probability" yaml:"open_probability"`
	AppendProbability float64 `json:"append_probability" yaml:"append_probability"`
	MaxPositions      int     `json:"max_positions" yaml:"max_positions"`
	MaxLogs           int     `json:"max_logs" yaml:"max_logs"`
	MaxCurvePoints    int     `json:"max_curve_points" yaml:"max_curve_points"`
}

// ParseInterval converts the interval string to time.Duration
func (s SimulationConfig) ParseInterval() (time.Duration, error) {
	return time.ParseDuration(s.Interval)
}

// StrategiesConfig holds the line-up of each desk
type StrategiesConfig struct {
	Spot   []sim.StrategySpec `json:"spot" yaml:"spot"`
	Option []sim.StrategySpec `json:"option" yaml:"option"`
}

// ServerConfig contains the HTTP listener settings
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	CyclesFile  string `json:"cycles_file,omitempty" yaml:"cycles_file,omitempty"`
	EquityFile  string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	SampleEvery int    `json:"sample_every" yaml:"sample_every"` // record strategy equity every N ticks
}

type LoggingConfig struct {
	Level   string `json:"level" yaml:"level"`
	Console bool   `json:"console" yaml:"console"`
}

// Load reads path (or starts from Default when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Fields the file leaves out keep their defaults.
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		if err = json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// ApplyEnv overrides scalar settings from FXDESK_* environment variables,
// after loading an optional .env file from the working directory. A value
// that does not parse as its field's type is an error.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	strs := map[string]*string{
		"simulation.interval": &c.Simulation.Interval,
		"server.addr":         &c.Server.Addr,
		"journal.type":        &c.Journal.Type,
		"journal.cycles_file": &c.Journal.CyclesFile,
		"journal.equity_file": &c.Journal.EquityFile,
		"journal.db_path":     &c.Journal.DBPath,
		"logging.level":       &c.Logging.Level,
	}
	floats := map[string]*float64{
		"simulation.open_probability":   &c.Simulation.OpenProbability,
		"simulation.append_probability": &c.Simulation.AppendProbability,
	}
	ints := map[string]*int{
		"simulation.max_positions":    &c.Simulation.MaxPositions,
		"simulation.max_logs":         &c.Simulation.MaxLogs,
		"simulation.max_curve_points": &c.Simulation.MaxCurvePoints,
		"journal.sample_every":        &c.Journal.SampleEvery,
	}

	for key, dst := range strs {
		v.SetDefault(key, *dst)
	}
	for key, dst := range floats {
		v.SetDefault(key, *dst)
	}
	for key, dst := range ints {
		v.SetDefault(key, *dst)
	}
	v.SetDefault("simulation.seed", c.Simulation.Seed)
	v.SetDefault("logging.console", c.Logging.Console)

	for key, dst := range strs {
		*dst = v.GetString(key)
	}
	for key, dst := range floats {
		f, err := cast.ToFloat64E(v.Get(key))
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = f
	}
	for key, dst := range ints {
		n, err := cast.ToIntE(v.Get(key))
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = n
	}

	seed, err := cast.ToUint64E(v.Get("simulation.seed"))
	if err != nil {
		return fmt.Errorf("env simulation.seed: %w", err)
	}
	c.Simulation.Seed = seed

	console, err := cast.ToBoolE(v.Get("logging.console"))
	if err != nil {
		return fmt.Errorf("env logging.console: %w", err)
	}
	c.Logging.Console = console
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	d, err := c.Simulation.ParseInterval()
	if err != nil {
		return fmt.Errorf("simulation.interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("simulation.interval must be positive")
	}
	if c.Simulation.OpenProbability < 0 || c.Simulation.OpenProbability > 1 {
		return fmt.Errorf("simulation.open_probability must be between 0 and 1")
	}
	if c.Simulation.AppendProbability < 0 || c.Simulation.AppendProbability > 1 {
		return fmt.Errorf("simulation.append_probability must be between 0 and 1")
	}
	if c.Simulation.MaxPositions <= 0 {
		return fmt.Errorf("simulation.max_positions must be positive")
	}
	if c.Simulation.MaxLogs <= 0 {
		return fmt.Errorf("simulation.max_logs must be positive")
	}
	if c.Simulation.MaxCurvePoints <= 0 {
		return fmt.Errorf("simulation.max_curve_points must be positive")
	}
	if err := validateLineUp("strategies.spot", c.Strategies.Spot); err != nil {
		return err
	}
	if err := validateLineUp("strategies.option", c.Strategies.Option); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.CyclesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal cycles_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	if c.Journal.SampleEvery < 0 {
		return fmt.Errorf("journal.sample_every must not be negative")
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}

func validateLineUp(field string, specs []sim.StrategySpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%s needs at least one strategy", field)
	}
	seen := map[string]bool{}
	for i, s := range specs {
		if s.ID == "" {
			return fmt.Errorf("%s[%d].id is required", field, i)
		}
		if s.ID == sim.GlobalStrategyID {
			return fmt.Errorf("%s[%d].id %q is reserved", field, i, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("%s: duplicate strategy id %q", field, s.ID)
		}
		seen[s.ID] = true
		if s.Name == "" {
			return fmt.Errorf("%s[%d].name is required", field, i)
		}
		if !validColor(s.Color) {
			return fmt.Errorf("%s[%d].color %q must look like #rrggbb", field, i, s.Color)
		}
	}
	return nil
}

func validColor(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Profile returns the tick constants for class with this config's overrides.
func (c *Config) Profile(class market.AssetClass) (sim.Profile, error) {
	p, err := sim.ProfileFor(class)
	if err != nil {
		return sim.Profile{}, err
	}
	p.OpenProbability = c.Simulation.OpenProbability
	p.AppendProbability = c.Simulation.AppendProbability
	p.MaxPositions = c.Simulation.MaxPositions
	p.MaxLogs = c.Simulation.MaxLogs
	p.MaxCurvePoints = c.Simulation.MaxCurvePoints
	return p, nil
}

// DeskOptions translates the config into sim.NewDesk options.
func (c *Config) DeskOptions() ([]sim.Option, error) {
	opts := []sim.Option{
		sim.WithSeed(c.Simulation.Seed),
		sim.WithStrategies(market.Spot, c.Strategies.Spot),
		sim.WithStrategies(market.Option, c.Strategies.Option),
	}
	for _, class := range market.AssetClasses {
		p, err := c.Profile(class)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sim.WithProfile(p))
	}
	return opts, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	spot := sim.SpotProfile()
	return &Config{
		Simulation: SimulationConfig{
			Interval:          "500ms",
			OpenProbability:   spot.OpenProbability,
			AppendProbability: spot.AppendProbability,
			MaxPositions:      spot.MaxPositions,
			MaxLogs:           spot.MaxLogs,
			MaxCurvePoints:    spot.MaxCurvePoints,
		},
		Strategies: StrategiesConfig{
			Spot:   sim.DefaultSpotStrategies(),
			Option: sim.DefaultOptionStrategies(),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Journal: JournalConfig{
			Type:        "none",
			CyclesFile:  "./cycles.csv",
			EquityFile:  "./equity.csv",
			DBPath:      "./fxdesk.sqlite",
			SampleEvery: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}
