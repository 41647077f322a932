// Package archive wraps the warehouse source: a per-month disk cache of raw
// archived event payloads, and the fold turning those payloads into a digest.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"ghdigest/internal/platform/logger"
)

// FetchFunc produces the payload rows for a month on a cache miss.
type FetchFunc func(ctx context.Context) ([]string, error)

// Store caches each month's raw event payloads as {month}.json in a directory.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, log: *logger.Named("archive")}
}

// Events returns the cached payload rows for month, calling fetch and
// persisting its result when no cache file exists. The cache is read or
// written at most once per run and never expired.
func (s *Store) Events(ctx context.Context, month string, fetch FetchFunc) ([]string, error) {
	path := filepath.Join(s.dir, month+".json")

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		s.log.Info().Str("cache", path).Msg("loading events from cache")
		var events []string
		if err := json.NewDecoder(f).Decode(&events); err != nil {
			return nil, fmt.Errorf("decode cache %s: %w", path, err)
		}
		return events, nil

	case errors.Is(err, os.ErrNotExist):
		s.log.Info().Str("cache", path).Msg("cache miss, fetching")
		events, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.write(path, events); err != nil {
			return nil, err
		}
		s.log.Info().Str("cache", path).Int("events", len(events)).Msg("saved events to cache")
		return events, nil

	default:
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
}

// write saves the payload list atomically (tmp file then rename).
func (s *Store) write(path string, events []string) error {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create cache %s: %w", path, err)
	}
	if err := json.NewEncoder(f).Encode(events); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close cache %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}
