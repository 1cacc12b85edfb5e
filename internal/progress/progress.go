// Package progress renders the CLI's "--status"/"--time" progress
// output: this design's single line `"\rStatus: <pct>%"`, carriage-return
// overwritten, precision configurable, suppressed entirely off a TTY or
// when status reporting is disabled. Adapted from the original
// ProgressBar (cmd/primes's bar-and-rate renderer): same
// mutex-guarded render() shape and FormatNumber-style human-readable
// counts, generalized from a filled/empty bar to a bare percentage and
// from a blocking lock to the non-blocking try-lock this design's
// "Non-blocking status-line lock" design note calls for.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
)

// StatusLine is this design's progress-line renderer. It is safe for
// concurrent use: print attempts that lose the try-lock race are
// skipped rather than blocked, matching this design's "holders that fail
// skip the print" rule and §5's "an opportunistic non-blocking lock on
// the progress printer."
type StatusLine struct {
	enabled   bool
	precision int
	startTime time.Time

	locked atomic.Bool
	mu     sync.Mutex
}

// New builds a StatusLine. enabled should reflect both "--status was
// passed" and "stdout is a TTY" (this design: "omitted entirely when not
// a TTY or when --status is absent"); callers typically compute it as
// `statusFlag && isatty.IsTerminal(os.Stdout.Fd())`.
func New(enabled bool, precision int) *StatusLine {
	return &StatusLine{
		enabled:   enabled,
		precision: precision,
		startTime: time.Now(),
	}
}

// IsTTY reports whether fd refers to a terminal, the gating condition
// this design describes for progress output.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Update prints the current percentage if enabled and the try-lock is
// free; otherwise it returns immediately without blocking.
func (s *StatusLine) Update(low, z uint64) {
	if !s.enabled {
		return
	}
	if !s.locked.CompareAndSwap(false, true) {
		return // another goroutine is mid-print; skip rather than wait
	}
	defer s.locked.Store(false)

	var pct float64
	if z > 0 {
		pct = float64(low) / float64(z) * 100
	}
	fmt.Fprintf(os.Stderr, "\rStatus: %.*f%%", s.precision, pct)
}

// Finish prints a final 100% line and a trailing newline, so subsequent
// stderr output doesn't collide with the carriage-returned status line.
func (s *StatusLine) Finish() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\rStatus: %.*f%%\n", s.precision, 100.0)
}

// Elapsed returns wall time since the StatusLine was created, used by
// --time to print total elapsed seconds.
func (s *StatusLine) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// FormatNumber renders n with a human-readable B/M/K suffix, used by
// --time's summary line.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.2fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FormatRate renders a primes/sec-style rate with thousands separators,
// the same formatting the original cmd/primes used for its summary
// line.
func FormatRate(rate float64) string {
	s := fmt.Sprintf("%.0f", rate)
	n := len(s)
	if n <= 3 {
		return s
	}
	var sb strings.Builder
	sb.Grow(n + n/3)
	offset := n % 3
	if offset == 0 {
		offset = 3
	}
	sb.WriteString(s[:offset])
	for i := offset; i < n; i += 3 {
		sb.WriteByte(',')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
