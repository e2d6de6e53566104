// Package archive keeps a JSONL record of every displayed message, one file
// per run, next to the plain-text transcript.
package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harun/parley/internal/observability"
	"github.com/harun/parley/internal/tracing"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const fileExt = ".jsonl"

// Entry is one archived message
type Entry struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Mode      string    `json:"mode,omitempty"`
	Speaker   string    `json:"speaker"`
	Label     string    `json:"label"`
	Text      string    `json:"text"`
	Turn      int       `json:"turn"`
	Timestamp time.Time `json:"timestamp"`
}

// Store appends entries to <dir>/<run id>.jsonl
type Store struct {
	dir        string
	writeLocks map[string]*sync.Mutex
	locksMu    sync.Mutex
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	log.Debug().Str("dir", dir).Msg("Archive store initialized")

	return &Store{
		dir:        dir,
		writeLocks: make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the archive directory
func (s *Store) Dir() string {
	return s.dir
}

// validateRunID keeps run IDs usable as file names.
func validateRunID(runID string) error {
	if runID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	if strings.Contains(runID, "..") {
		return fmt.Errorf("run id cannot contain '..'")
	}
	if strings.ContainsAny(runID, "/\\\x00") {
		return fmt.Errorf("run id cannot contain path separators or null bytes")
	}
	return nil
}

func (s *Store) path(runID string) string {
	return filepath.Join(s.dir, runID+fileExt)
}

func (s *Store) writeLock(runID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	if lock, ok := s.writeLocks[runID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.writeLocks[runID] = lock
	return lock
}

// Append writes entry as one JSON line of run runID. ID and Timestamp are
// filled in when empty.
func (s *Store) Append(ctx context.Context, runID string, entry Entry) error {
	ctx, span := tracing.StartSpan(ctx, "parley.archive", "archive.append",
		attribute.String("run_id", runID),
		attribute.String("speaker", entry.Speaker),
	)
	defer span.End()
	start := time.Now()
	defer func() {
		observability.RecordArchiveWrite(time.Since(start))
	}()

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := validateRunID(runID); err != nil {
		return fail(err)
	}

	if entry.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fail(fmt.Errorf("failed to generate entry id: %w", err))
		}
		entry.ID = id
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.RunID = runID

	data, err := json.Marshal(entry)
	if err != nil {
		return fail(fmt.Errorf("failed to marshal entry: %w", err))
	}

	lock := s.writeLock(runID)
	lock.Lock()
	defer lock.Unlock()

	file, err := os.OpenFile(s.path(runID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fail(fmt.Errorf("failed to open archive file: %w", err))
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fail(fmt.Errorf("failed to write entry: %w", err))
	}
	if err := file.Sync(); err != nil {
		return fail(fmt.Errorf("failed to sync archive file: %w", err))
	}

	logger := tracing.LoggerFromContext(ctx, log.Logger)
	logger.Debug().
		Str("entry_id", entry.ID).
		Str("speaker", entry.Speaker).
		Msg("Entry archived")

	return nil
}

// Load reads all entries of runID in write order. A missing run yields an
// empty slice; malformed lines are skipped.
func (s *Store) Load(ctx context.Context, runID string) ([]Entry, error) {
	ctx, span := tracing.StartSpan(ctx, "parley.archive", "archive.load",
		attribute.String("run_id", runID),
	)
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, log.Logger)

	if err := validateRunID(runID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	file, err := os.Open(s.path(runID))
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	defer file.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			logger.Warn().Int("line", lineNum).Err(err).Msg("Failed to parse archive line, skipping")
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}

	return entries, nil
}

// List returns the archived run IDs, oldest first.
func (s *Store) List() ([]string, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	type run struct {
		id  string
		mod time.Time
	}
	runs := make([]run, 0, len(files))
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != fileExt {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		runs = append(runs, run{id: strings.TrimSuffix(f.Name(), fileExt), mod: info.ModTime()})
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].mod.Equal(runs[j].mod) {
			return runs[i].id < runs[j].id
		}
		return runs[i].mod.Before(runs[j].mod)
	})

	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.id
	}
	return ids, nil
}
