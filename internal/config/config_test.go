package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	if cfg != want {
		t.Errorf("Load() with missing file = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `automation:
  tick_interval_ms: 100
  min_task_delay_ms: 200
  max_task_delay_ms: 400
  failure_rate: 0
agent:
  version: "1.2.3"
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error: %v", err)
	}

	if cfg.Automation.TickIntervalMS != 100 {
		t.Errorf("TickIntervalMS = %d, want 100", cfg.Automation.TickIntervalMS)
	}
	if cfg.Automation.FailureRate != 0 {
		t.Errorf("FailureRate = %d, want 0", cfg.Automation.FailureRate)
	}
	if cfg.Agent.Version != "1.2.3" {
		t.Errorf("Agent.Version = %q, want %q", cfg.Agent.Version, "1.2.3")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "log:\n  level: warn\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if cfg.Automation.TickIntervalMS != Default().Automation.TickIntervalMS {
		t.Errorf("TickIntervalMS = %d, want default %d",
			cfg.Automation.TickIntervalMS, Default().Automation.TickIntervalMS)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml::"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadFromDir(dir); err == nil {
		t.Error("LoadFromDir() with malformed file = nil error, want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative tick", func(c *Config) { c.Automation.TickIntervalMS = -1 }, true},
		{"negative failure rate", func(c *Config) { c.Automation.FailureRate = -1 }, true},
		{"max below min", func(c *Config) {
			c.Automation.MinTaskDelayMS = 500
			c.Automation.MaxTaskDelayMS = 100
		}, true},
		{"zero delays", func(c *Config) {
			c.Automation.TickIntervalMS = 0
			c.Automation.MinTaskDelayMS = 0
			c.Automation.MaxTaskDelayMS = 0
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestDurationGetters(t *testing.T) {
	a := AutomationConfig{TickIntervalMS: 500, MinTaskDelayMS: 1000, MaxTaskDelayMS: 3000}

	if got := a.TickInterval(); got != 500*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 500ms", got)
	}
	if got := a.MinTaskDelay(); got != time.Second {
		t.Errorf("MinTaskDelay() = %v, want 1s", got)
	}
	if got := a.MaxTaskDelay(); got != 3*time.Second {
		t.Errorf("MaxTaskDelay() = %v, want 3s", got)
	}
}

func TestDefaultStateDirEnvOverride(t *testing.T) {
	t.Setenv(StateDirEnv, "/tmp/nova-test-state")

	dir, err := DefaultStateDir()
	if err != nil {
		t.Fatalf("DefaultStateDir() error: %v", err)
	}
	if dir != "/tmp/nova-test-state" {
		t.Errorf("DefaultStateDir() = %q, want env override", dir)
	}
}

func TestDefaultStateDirUnderHome(t *testing.T) {
	t.Setenv(StateDirEnv, "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	dir, err := DefaultStateDir()
	if err != nil {
		t.Fatalf("DefaultStateDir() error: %v", err)
	}
	if dir != filepath.Join(home, ".nova") {
		t.Errorf("DefaultStateDir() = %q, want %q", dir, filepath.Join(home, ".nova"))
	}
}
