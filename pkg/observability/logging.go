package observability

import (
	"io"
	"os"

	"github.com/chazu/pcgrid/pkg/config"
	"github.com/hashicorp/go-hclog"
)

// NewLogger builds the application logger from cfg. Output goes to w, or
// stderr when w is nil. An unknown level falls back to info.
func NewLogger(cfg config.LogConfig, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "pcgrid",
		Level:      level,
		JSONFormat: cfg.JSON,
		Output:     w,
	})
}
