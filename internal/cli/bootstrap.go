package cli

import (
	"fmt"

	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/config"
	"github.com/novahq/nova/internal/logging"
)

// resolveStateDir honors the --state-dir flag, then the environment
// override, then the default location.
func resolveStateDir() (string, error) {
	if stateDirFlag != "" {
		return stateDirFlag, nil
	}
	return config.DefaultStateDir()
}

// openStore builds the automation store from the state directory: storage,
// config, file-backed logger. Pass nil events for commands that don't run
// plans.
func openStore(events automation.Events) (*automation.Store, config.Config, error) {
	dir, err := resolveStateDir()
	if err != nil {
		return nil, config.Config{}, err
	}

	storage, err := automation.NewStorage(dir)
	if err != nil {
		return nil, config.Config{}, err
	}

	cfg, err := config.LoadFromDir(dir)
	if err != nil {
		return nil, config.Config{}, err
	}

	logger, err := logging.New(dir, cfg.Log.Level)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to set up logging: %w", err)
	}

	opts := []automation.Option{
		automation.WithLogger(logger),
		automation.WithTiming(
			cfg.Automation.TickInterval(),
			cfg.Automation.MinTaskDelay(),
			cfg.Automation.MaxTaskDelay(),
		),
		automation.WithFailureRate(cfg.Automation.FailureRate),
		automation.WithAgentVersion(cfg.Agent.Version),
	}
	if events != nil {
		opts = append(opts, automation.WithEvents(events))
	}

	return automation.NewStore(storage, opts...), cfg, nil
}
