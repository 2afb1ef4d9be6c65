// ABOUTME: File-backed diagnostics for the interactive interface
// ABOUTME: Failed backend operations land in debug.log, never on the terminal

// Package debuglog appends diagnostics to debug.log in the lettre config
// directory, next to session.json. The interactive interface owns the
// terminal, so backend failures (an expired session mid-wizard, a roster
// fetch that 500s) are written here instead of printed.
package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	out *os.File
)

// Init opens debug.log under the given config directory. An empty
// directory leaves the package as a no-op.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	out = f
	return nil
}

// Close closes the log file and disables further writes
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if out != nil {
		out.Close()
		out = nil
	}
}

// Printf appends one timestamped line. A no-op before Init or after Close.
func Printf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if out == nil {
		return
	}
	fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

// Error records a failed operation under its name, using the same
// vocabulary as the screens ("login", "roster", "wizard submit").
// Nil errors are ignored.
func Error(op string, err error) {
	if err == nil {
		return
	}
	Printf("erreur %s: %v", op, err)
}
