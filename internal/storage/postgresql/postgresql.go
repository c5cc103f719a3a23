package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/metrics"
)

const (
	// tables
	documentsTable = "gallery_documents"

	// the events collection is kept as a single document
	eventsDocument = "events"

	driverName = "postgres"
)

// body is JSON rather than JSONB: jsonb reorders object keys and the key
// order of the document is the order of the collection.
const schema = `
CREATE TABLE IF NOT EXISTS gallery_documents (
	name       TEXT PRIMARY KEY,
	body       JSON NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
ALTER TABLE gallery_documents ALTER COLUMN body TYPE JSON USING body::text::json;`

// Storage keeps the events collection as one JSON row. Reads and writes
// replace the whole document exactly like the file store does.
type Storage struct {
	log *slog.Logger
	db  *pgxpool.Pool
	sb  sq.StatementBuilderType
}

func New(ctx context.Context, log *slog.Logger, dsn string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		log: log,
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}

	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgresql.Migrate"

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Stop() {
	s.db.Close()
}

// Load returns the stored collection, or an empty one when nothing was saved
// yet or the stored document cannot be decoded.
func (s *Storage) Load(ctx context.Context) (models.EventsCollection, error) {
	const op = "storage.postgresql.Load"

	defer observe("load", time.Now())

	query, args, err := s.sb.Select("body").
		From(documentsTable).
		Where(sq.Eq{"name": eventsDocument}).
		ToSql()
	if err != nil {
		return models.EventsCollection{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var body []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewEventsCollection(), nil
		}
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	var events models.EventsCollection
	if err := json.Unmarshal(body, &events); err != nil {
		s.log.Warn("stored events document is malformed, treating as empty",
			slog.String("op", op),
			sl.Err(err),
		)
		return models.NewEventsCollection(), nil
	}

	return events, nil
}

// Save upserts the whole collection.
func (s *Storage) Save(ctx context.Context, events models.EventsCollection) error {
	const op = "storage.postgresql.Save"

	defer observe("save", time.Now())

	body, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := s.sb.Insert(documentsTable).
		Columns("name", "body", "updated_at").
		Values(eventsDocument, string(body), time.Now().UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func observe(operation string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(driverName, operation).Observe(time.Since(start).Seconds())
}
