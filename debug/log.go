// Package debug provides the optional trace written when beepy runs with
// -debug. It stays off stdout, which the pcm output may own.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	sink    io.Writer = os.Stderr
	enabled bool
)

// Enable turns on debug logging.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns debug logging back off.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// SetOutput redirects the trace, mainly for tests. It returns the previous
// sink.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := sink
	sink = w
	return prev
}

// Log writes one message to the trace.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(sink, "[%s] %-8s %s\n", ts, category, fmt.Sprintf(format, args...))
}
