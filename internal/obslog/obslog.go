// Package obslog is the ambient structured-logging setup for the
// tircparse binary: one zap.Logger, configured once at the process
// boundary, used for operational events (startup, file I/O failures,
// pipeline panics). Parse diagnostics themselves are reported through
// diagnostics.ParseError and printed directly, not logged — they are
// part of the tool's primary output, not an operational side channel.
package obslog

import "go.uber.org/zap"

// New builds a console-friendly logger for CLI use. verbose enables
// debug-level output.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = !verbose
	return cfg.Build()
}
