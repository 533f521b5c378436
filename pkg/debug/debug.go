// Package debug provides conditional debug logging for hs.
//
// Logging is switched on with the HS_DEBUG environment variable:
//
//	HS_DEBUG=1 hs --data assets/data/data.csv
//
// Messages go to stderr with a timestamp. When HS_DEBUG is unset every
// helper returns immediately.
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// EnvVar is the environment variable that enables debug logging.
const EnvVar = "HS_DEBUG"

const prefix = "[HS_DEBUG] "

var (
	mu      sync.Mutex
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv(EnvVar) != "" {
		enabled = true
		logger = newLogger(os.Stderr)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, prefix, log.Ltime|log.Lmicroseconds)
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// SetEnabled turns debug logging on or off at runtime.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e && logger == nil {
		logger = newLogger(os.Stderr)
	}
}

// SetOutput redirects debug output, mainly for tests. It does not change
// whether logging is enabled.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

func printf(format string, args ...any) {
	mu.Lock()
	on, l := enabled, logger
	mu.Unlock()
	if !on || l == nil {
		return
	}
	l.Printf(format, args...)
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	printf(format, args...)
}

// LogIf writes a debug message only when cond is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	printf(format, args...)
}

// LogTiming records how long a named step took.
func LogTiming(name string, d time.Duration) {
	printf("%s took %v", name, d)
}

// LogEnterExit logs entry and, when the returned func runs, exit with the
// elapsed time:
//
//	defer debug.LogEnterExit("session.Click")()
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	printf("-> %s", name)
	start := time.Now()
	return func() {
		printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value along with its type.
func Dump(name string, v any) {
	printf("%s: %T = %+v", name, v, v)
}
