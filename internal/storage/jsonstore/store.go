package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/metrics"

	"github.com/goccy/go-json"
)

const (
	TmpSuffix       = ".tmp"
	BackupSuffix    = ".bak"
	FilePermissions = 0644

	driverName = "file"
)

// Store keeps the whole events collection in a single JSON file. Every Save
// rewrites the file; concurrent writers race and the last one wins.
type Store struct {
	log  *slog.Logger
	path string
}

func New(log *slog.Logger, path string) (*Store, error) {
	const op = "storage.jsonstore.New"

	if path == "" {
		return nil, fmt.Errorf("%s: empty events file path", op)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{
		log:  log,
		path: path,
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the collection. A missing file or undecodable content yields an
// empty collection; only I/O failures are returned as errors.
func (s *Store) Load(ctx context.Context) (models.EventsCollection, error) {
	const op = "storage.jsonstore.Load"

	if err := ctx.Err(); err != nil {
		return models.EventsCollection{}, err
	}

	defer observe("load", time.Now())

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewEventsCollection(), nil
		}
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	var events models.EventsCollection
	if err := json.Unmarshal(data, &events); err != nil {
		s.log.Warn("events file is malformed, treating as empty",
			slog.String("op", op),
			slog.String("path", s.path),
			sl.Err(err),
		)
		return models.NewEventsCollection(), nil
	}

	return events, nil
}

// Save writes the collection to a temp file and renames it over the target,
// keeping the previous version as a backup.
func (s *Store) Save(ctx context.Context, events models.EventsCollection) error {
	const op = "storage.jsonstore.Save"

	if err := ctx.Err(); err != nil {
		return err
	}

	defer observe("save", time.Now())

	data, err := json.MarshalIndentWithOption(events, "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmpFile := s.path + TmpSuffix
	if err := os.WriteFile(tmpFile, data, FilePermissions); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := copyFile(s.path, s.path+BackupSuffix); err != nil {
			s.log.Warn("failed to create backup", slog.String("op", op), sl.Err(err))
		}
	}

	if err := os.Rename(tmpFile, s.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, FilePermissions)
}

func observe(operation string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(driverName, operation).Observe(time.Since(start).Seconds())
}
