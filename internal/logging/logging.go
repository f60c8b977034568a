// Package logging sets up the process-wide logger: console output plus
// an optional log file, mirroring the teacher's habit of tee-ing
// operational output to both a terminal and a persistent file.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu   sync.Mutex
	logr = log.New(os.Stderr, "", log.LstdFlags)
)

// Setup points the shared logger at logFilePath in addition to stderr.
// An empty path leaves the logger writing to stderr only.
func Setup(logFilePath string) error {
	if logFilePath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	mu.Lock()
	logr = log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags)
	mu.Unlock()

	return nil
}

// Warnf logs a per-item warning (spec §4.2/§7: unreadable directories or
// files produce a warning and never abort the walk).
func Warnf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logr.Printf("WARN "+format, args...)
}

// Printf logs an informational, console-and-log message.
func Printf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logr.Printf(format, args...)
}

// Once returns a logging function that prints a given key only the first
// time it is invoked, used for the CacheUnavailable degrade-once policy.
func Once() func(key, format string, args ...any) {
	seen := map[string]bool{}
	var m sync.Mutex
	return func(key, format string, args ...any) {
		m.Lock()
		defer m.Unlock()
		if seen[key] {
			return
		}
		seen[key] = true
		Printf(format, args...)
	}
}
