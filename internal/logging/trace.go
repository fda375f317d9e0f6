// Package logging provides the exporter's ambient diagnostic logger.
//
// It mirrors go-git's utils/trace package: a single process-wide
// *log.Logger gated by a bitmask of enabled targets, so a host CLI can
// redirect output (to a UTF-8, CRLF-terminated log file) and dial up or
// down which subsystems are noisy without touching the call sites.
package logging

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

var (
	logger = newLogger()
	target atomic.Int32
)

func newLogger() *log.Logger {
	return log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
}

// Target identifies a logging subsystem. Targets are combined as a bitmask
// so a caller can enable exactly the subsystems it wants traced.
type Target int32

const (
	// General traces run-level lifecycle events (begin/end format, summary).
	General Target = 1 << iota
	// IO traces byte-layer and filesystem activity (reader/writer/walk).
	IO
	// Format traces cache-format parsing (Mozilla, Shockwave).
	Format
	// Export traces per-entry orchestration (label, filter, copy).
	Export
)

// Enabled reports whether t has any bit set in the current target mask.
func (t Target) Enabled() bool {
	return target.Load()&int32(t) != 0
}

// SetTarget replaces the enabled target mask.
func SetTarget(t Target) {
	target.Store(int32(t))
}

// SetLogger replaces the underlying logger, e.g. to redirect to a log file.
func SetLogger(l *log.Logger) {
	logger = l
}

// Warn logs a per-directory or per-format warning. Warnings never abort
// the run.
func Warn(format string, args ...any) {
	logger.Output(2, "WARN "+fmt.Sprintf(format, args...)) //nolint:errcheck
}

// Error logs a per-entry error. The caller is responsible for skipping the
// entry and continuing.
func Error(format string, args ...any) {
	logger.Output(2, "ERROR "+fmt.Sprintf(format, args...)) //nolint:errcheck
}

// Print logs a message for t only if t is currently enabled.
func (t Target) Print(args ...any) {
	if t.Enabled() {
		logger.Output(2, fmt.Sprint(args...)) //nolint:errcheck
	}
}

// Printf logs a formatted message for t only if t is currently enabled.
func (t Target) Printf(format string, args ...any) {
	if t.Enabled() {
		logger.Output(2, fmt.Sprintf(format, args...)) //nolint:errcheck
	}
}
