// Package config loads the optional per-user configuration file from the
// state directory. A missing file yields defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	stateDirName   = ".nova"
	configFileName = "config.yaml"

	// StateDirEnv overrides the default state directory location.
	StateDirEnv = "NOVA_STATE_DIR"
)

// Config is the top-level configuration.
type Config struct {
	Automation AutomationConfig `yaml:"automation"`
	Agent      AgentConfig      `yaml:"agent"`
	Log        LogConfig        `yaml:"log"`
}

// AutomationConfig controls the pacing of simulated plan execution.
type AutomationConfig struct {
	TickIntervalMS int `yaml:"tick_interval_ms"`
	MinTaskDelayMS int `yaml:"min_task_delay_ms"`
	MaxTaskDelayMS int `yaml:"max_task_delay_ms"`
	// FailureRate is the 1-in-N chance a simulated task fails. 0 disables
	// simulated failures.
	FailureRate int `yaml:"failure_rate"`
}

// AgentConfig describes the simulated local agent.
type AgentConfig struct {
	Version string `yaml:"version"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Automation: AutomationConfig{
			TickIntervalMS: 500,
			MinTaskDelayMS: 1000,
			MaxTaskDelayMS: 3000,
			FailureRate:    20,
		},
		Agent: AgentConfig{
			Version: "0.3.1",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path. A missing file returns defaults;
// a malformed file returns an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromDir reads config.yaml from the given state directory.
func LoadFromDir(dir string) (Config, error) {
	return Load(filepath.Join(dir, configFileName))
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	a := c.Automation
	if a.TickIntervalMS < 0 || a.MinTaskDelayMS < 0 || a.MaxTaskDelayMS < 0 {
		return fmt.Errorf("automation delays must not be negative")
	}
	if a.MaxTaskDelayMS < a.MinTaskDelayMS {
		return fmt.Errorf("max_task_delay_ms (%d) must not be less than min_task_delay_ms (%d)",
			a.MaxTaskDelayMS, a.MinTaskDelayMS)
	}
	if a.FailureRate < 0 {
		return fmt.Errorf("failure_rate must not be negative")
	}
	return nil
}

// TickInterval returns the inter-task tick period.
func (a AutomationConfig) TickInterval() time.Duration {
	return time.Duration(a.TickIntervalMS) * time.Millisecond
}

// MinTaskDelay returns the lower bound of the simulated task delay window.
func (a AutomationConfig) MinTaskDelay() time.Duration {
	return time.Duration(a.MinTaskDelayMS) * time.Millisecond
}

// MaxTaskDelay returns the upper bound of the simulated task delay window.
func (a AutomationConfig) MaxTaskDelay() time.Duration {
	return time.Duration(a.MaxTaskDelayMS) * time.Millisecond
}

// DefaultStateDir returns the per-user state directory, honoring the
// NOVA_STATE_DIR override.
func DefaultStateDir() (string, error) {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, stateDirName), nil
}
