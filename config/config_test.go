package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/fxdesk/market"
	"github.com/rustyeddy/fxdesk/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "500ms", cfg.Simulation.Interval)
	assert.Equal(t, 0.15, cfg.Simulation.OpenProbability)
	assert.Equal(t, 0.3, cfg.Simulation.AppendProbability)
	assert.Equal(t, 8, cfg.Simulation.MaxPositions)
	assert.Equal(t, 20, cfg.Simulation.MaxLogs)
	assert.Equal(t, 60, cfg.Simulation.MaxCurvePoints)
	assert.Len(t, cfg.Strategies.Spot, 7)
	assert.Len(t, cfg.Strategies.Option, 6)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "none", cfg.Journal.Type)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "bad interval",
			modify: func(c *Config) {
				c.Simulation.Interval = "soon"
			},
			wantErr: true,
			errMsg:  "simulation.interval",
		},
		{
			name: "zero interval",
			modify: func(c *Config) {
				c.Simulation.Interval = "0s"
			},
			wantErr: true,
			errMsg:  "simulation.interval must be positive",
		},
		{
			name: "open probability above one",
			modify: func(c *Config) {
				c.Simulation.OpenProbability = 1.5
			},
			wantErr: true,
			errMsg:  "simulation.open_probability must be between 0 and 1",
		},
		{
			name: "negative append probability",
			modify: func(c *Config) {
				c.Simulation.AppendProbability = -0.1
			},
			wantErr: true,
			errMsg:  "simulation.append_probability must be between 0 and 1",
		},
		{
			name: "zero max positions",
			modify: func(c *Config) {
				c.Simulation.MaxPositions = 0
			},
			wantErr: true,
			errMsg:  "simulation.max_positions must be positive",
		},
		{
			name: "empty spot line-up",
			modify: func(c *Config) {
				c.Strategies.Spot = nil
			},
			wantErr: true,
			errMsg:  "strategies.spot needs at least one strategy",
		},
		{
			name: "missing strategy id",
			modify: func(c *Config) {
				c.Strategies.Option[2].ID = ""
			},
			wantErr: true,
			errMsg:  "strategies.option[2].id is required",
		},
		{
			name: "reserved strategy id",
			modify: func(c *Config) {
				c.Strategies.Spot[0].ID = sim.GlobalStrategyID
			},
			wantErr: true,
			errMsg:  "is reserved",
		},
		{
			name: "duplicate strategy id",
			modify: func(c *Config) {
				c.Strategies.Spot[1].ID = c.Strategies.Spot[0].ID
			},
			wantErr: true,
			errMsg:  "duplicate strategy id",
		},
		{
			name: "bad color",
			modify: func(c *Config) {
				c.Strategies.Spot[0].Color = "blue"
			},
			wantErr: true,
			errMsg:  "must look like #rrggbb",
		},
		{
			name: "missing server addr",
			modify: func(c *Config) {
				c.Server.Addr = ""
			},
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name: "csv journal without files",
			modify: func(c *Config) {
				c.Journal.Type = "csv"
				c.Journal.CyclesFile = ""
			},
			wantErr: true,
			errMsg:  "cycles_file and equity_file required",
		},
		{
			name: "sqlite journal without path",
			modify: func(c *Config) {
				c.Journal.Type = "sqlite"
				c.Journal.DBPath = ""
			},
			wantErr: true,
			errMsg:  "db_path required",
		},
		{
			name: "unknown journal type",
			modify: func(c *Config) {
				c.Journal.Type = "kafka"
			},
			wantErr: true,
			errMsg:  "journal.type must be",
		},
		{
			name: "unknown log level",
			modify: func(c *Config) {
				c.Logging.Level = "loud"
			},
			wantErr: true,
			errMsg:  "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"json", "yaml"} {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config."+ext)

			cfg := Default()
			cfg.Simulation.Seed = 42
			cfg.Server.Addr = "127.0.0.1:9090"
			cfg.Journal.Type = "sqlite"
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "simulation:\n  interval: 250ms\nserver:\n  addr: \":9000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "250ms", cfg.Simulation.Interval)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Simulation.MaxPositions)
	assert.Len(t, cfg.Strategies.Spot, 7)
}

func TestLoadInvalidFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	garbage := filepath.Join(dir, "garbage.yaml")
	require.NoError(t, os.WriteFile(garbage, []byte("{{{ not config"), 0644))
	_, err = LoadFromFile(garbage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("journal:\n  type: kafka\n"), 0644))
	_, err = LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

// Env tests mutate process state and cannot run in parallel.
func TestLoadAppliesEnv(t *testing.T) {
	t.Setenv("FXDESK_SERVER_ADDR", ":7070")
	t.Setenv("FXDESK_SIMULATION_INTERVAL", "1s")
	t.Setenv("FXDESK_SIMULATION_SEED", "99")
	t.Setenv("FXDESK_LOGGING_LEVEL", "debug")
	t.Setenv("FXDESK_LOGGING_CONSOLE", "false")
	t.Setenv("FXDESK_SIMULATION_OPEN_PROBABILITY", "0.5")
	t.Setenv("FXDESK_SIMULATION_APPEND_PROBABILITY", "0.25")
	t.Setenv("FXDESK_SIMULATION_MAX_POSITIONS", "4")
	t.Setenv("FXDESK_SIMULATION_MAX_LOGS", "10")
	t.Setenv("FXDESK_SIMULATION_MAX_CURVE_POINTS", "30")
	t.Setenv("FXDESK_JOURNAL_SAMPLE_EVERY", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "1s", cfg.Simulation.Interval)
	assert.Equal(t, uint64(99), cfg.Simulation.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Console)
	assert.Equal(t, 0.5, cfg.Simulation.OpenProbability)
	assert.Equal(t, 0.25, cfg.Simulation.AppendProbability)
	assert.Equal(t, 4, cfg.Simulation.MaxPositions)
	assert.Equal(t, 10, cfg.Simulation.MaxLogs)
	assert.Equal(t, 30, cfg.Simulation.MaxCurvePoints)
	assert.Equal(t, 3, cfg.Journal.SampleEvery)
}

func TestLoadEnvKeepsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  max_logs: 12\n"), 0644))
	t.Setenv("FXDESK_SIMULATION_MAX_POSITIONS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Simulation.MaxLogs)
	assert.Equal(t, 5, cfg.Simulation.MaxPositions)
}

func TestLoadRejectsUnparseableEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"FXDESK_SIMULATION_SEED", "abc"},
		{"FXDESK_SIMULATION_SEED", "-1"},
		{"FXDESK_SIMULATION_OPEN_PROBABILITY", "often"},
		{"FXDESK_SIMULATION_MAX_POSITIONS", "many"},
		{"FXDESK_JOURNAL_SAMPLE_EVERY", "1.5x"},
		{"FXDESK_LOGGING_CONSOLE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "env ")
		})
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("FXDESK_JOURNAL_TYPE", "kafka")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal.type")
}

func TestParseInterval(t *testing.T) {
	t.Parallel()

	d, err := Default().Simulation.ParseInterval()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestDeskOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Simulation.Seed = 7
	cfg.Simulation.MaxPositions = 3
	cfg.Strategies.Spot = cfg.Strategies.Spot[:2]

	p, err := cfg.Profile(market.Option)
	require.NoError(t, err)
	assert.Equal(t, 3, p.MaxPositions)
	assert.Equal(t, sim.OptionProfile().PriceVolatility, p.PriceVolatility)

	opts, err := cfg.DeskOptions()
	require.NoError(t, err)
	d, err := sim.NewDesk(opts...)
	require.NoError(t, err)

	st, err := d.State(market.Spot)
	require.NoError(t, err)
	assert.Len(t, st.Strategies, 2)

	got, ok := d.Profile(market.Spot)
	require.True(t, ok)
	assert.Equal(t, 3, got.MaxPositions)
}
