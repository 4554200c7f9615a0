// Package logger provides verbose logging for the Leasewise CLI.
// When verbose mode is enabled via the --verbose flag, pipeline
// messages are printed to stderr to help users understand retrieval
// and answering (scores, routing decisions, index rebuilds).
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf prints one prefixed line if verbose mode is enabled.
func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+" "+format+"\n", args...)
	}
}

// Debug prints a debug message.
func Debug(format string, args ...any) {
	logf("[DEBUG]", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	logf("[INFO]", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf("[WARN]", format, args...)
}

// Score prints a labelled cosine distance. Retrieval and answering log
// their gate decisions through this so a --verbose run shows every
// threshold comparison in one grep-able form.
func Score(label string, score float64) {
	logf("[SCORE]", "%s: %.3f", label, score)
}

// Section prints a section header, marking the start of a pipeline
// stage in the verbose stream.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
