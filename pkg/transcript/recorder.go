// Package transcript accumulates the displayed conversation and writes it
// out once the session ends.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harun/parley/internal/observability"
)

const (
	// DefaultDir is where transcripts land when no directory is configured.
	DefaultDir = "convos"

	fileTimeLayout = "2006-01-02_15-04-05"
	ruleWidth      = 60
)

var (
	markup = strings.NewReplacer("*", "", "#", "")

	// Separator is placed between lines in a flushed transcript.
	Separator = "\n\n" + strings.Repeat("─", ruleWidth) + "\n\n"
)

// Clean strips emphasis markup and surrounding whitespace.
func Clean(raw string) string {
	return strings.TrimSpace(markup.Replace(raw))
}

// Recorder is an append-only list of "<label>: <text>" lines.
type Recorder struct {
	mu    sync.Mutex
	lines []string
	dir   string
	now   func() time.Time
}

// Option configures a Recorder
type Option func(*Recorder)

// WithClock sets the clock used to name the flushed file.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// NewRecorder creates a recorder flushing into dir.
func NewRecorder(dir string, opts ...Option) *Recorder {
	if dir == "" {
		dir = DefaultDir
	}
	r := &Recorder{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stores one line and returns the cleaned text.
func (r *Recorder) Record(label, raw string) string {
	clean := Clean(raw)

	r.mu.Lock()
	r.lines = append(r.lines, fmt.Sprintf("%s: %s", label, clean))
	r.mu.Unlock()

	return clean
}

// Lines returns a copy of the recorded lines in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Len returns the number of recorded lines.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// Dir returns the flush directory
func (r *Recorder) Dir() string {
	return r.dir
}

// Flush writes all lines to a single timestamped file and returns its path.
// Nothing is written when no line was recorded.
func (r *Recorder) Flush() (string, error) {
	lines := r.Lines()
	if len(lines) == 0 {
		observability.RecordTranscriptFlush("empty")
		return "", nil
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		observability.RecordTranscriptFlush("error")
		return "", fmt.Errorf("failed to create transcript directory: %w", err)
	}

	name := fmt.Sprintf("convo_%s.txt", r.now().Format(fileTimeLayout))
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, []byte(strings.Join(lines, Separator)), 0644); err != nil {
		observability.RecordTranscriptFlush("error")
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}

	observability.RecordTranscriptFlush("written")
	return path, nil
}
