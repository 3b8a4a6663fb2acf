// Package logging builds the component loggers used by servers and
// background work.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.RWMutex
	level            = log.InfoLevel
	output io.Writer = os.Stderr
)

// SetLevel sets the level of loggers created afterwards.
// Accepts debug, info, warn, error and fatal.
func SetLevel(name string) error {
	l, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	mu.Lock()
	level = l
	mu.Unlock()
	return nil
}

// SetOutput redirects loggers created afterwards.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// New returns a timestamped logger with a component prefix.
func New(prefix string) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
