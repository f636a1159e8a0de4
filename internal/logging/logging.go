// Package logging sets up the diagnostic logger. Output goes to a file in
// the state directory so log lines never corrupt the TUI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const logFileName = "nova.log"

// New creates a file-backed logger in the given state directory at the
// given level.
func New(dir, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to open log file: %w", err)
	}

	return zerolog.New(f).Level(lvl).With().Timestamp().Logger(), nil
}
