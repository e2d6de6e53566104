package archive

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/harun/parley/internal/tracing"
	"github.com/rs/zerolog/log"
)

// DefaultRetention is how long archived runs are kept by Prune.
const DefaultRetention = 7 * 24 * time.Hour

// Delete removes the archive file of runID. Deleting a missing run is not an error.
func (s *Store) Delete(runID string) error {
	if err := validateRunID(runID); err != nil {
		return err
	}

	lock := s.writeLock(runID)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(s.path(runID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}

	s.locksMu.Lock()
	delete(s.writeLocks, runID)
	s.locksMu.Unlock()

	return nil
}

// Prune deletes runs whose file was last written more than maxAge before
// now and returns their IDs. A zero maxAge means DefaultRetention.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration, now time.Time) ([]string, error) {
	if maxAge <= 0 {
		maxAge = DefaultRetention
	}
	logger := tracing.LoggerFromContext(ctx, log.Logger)

	ids, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	deleted := []string{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		info, err := os.Stat(s.path(id))
		if err != nil {
			logger.Warn().Str("run_id", id).Err(err).Msg("Failed to stat archived run")
			continue
		}

		age := now.Sub(info.ModTime())
		if age < maxAge {
			continue
		}
		if err := s.Delete(id); err != nil {
			logger.Error().Str("run_id", id).Err(err).Msg("Failed to delete archived run")
			continue
		}
		deleted = append(deleted, id)

		logger.Debug().Str("run_id", id).Dur("age", age).Msg("Archived run deleted")
	}

	if len(deleted) > 0 {
		logger.Info().Int("deleted", len(deleted)).Msg("Pruned archived runs")
	}

	return deleted, nil
}
