package util

import (
	"log/slog"
	"time"
)

// Trace logs how long the caller took; use as `defer util.Trace("name")()`.
func Trace(name string) func() {
	start := time.Now()
	slog.Debug("start", "op", name)
	return func() {
		slog.Info("done", "op", name, "elapsed", time.Since(start))
	}
}
