// Package cli implements the nestview command-line interface.
//
// The CLI loads a TOML config (see package config), opens the configured
// graph store and result cache, and runs the diagram pipeline.
//
// # Commands
//
//   - import: load a JSON or YAML graph file into the store
//   - diagrams: list configured diagrams
//   - hierarchy: print the nested hierarchy of a diagram as a tree
//   - render: write a diagram as SVG or JSON, optionally re-rendering on change
//   - relations: summarize how labels connect, as DOT, SVG or JSON
//   - rules: show which formatting rules match which entities
//   - config: print the resolved configuration
//   - cache: clear the result cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline, cache and store events.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered datacenter (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
