package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/lib/stats"
	"event_gallery/internal/metrics"
	"event_gallery/internal/repository"
	"event_gallery/internal/storage"
	"event_gallery/internal/transport/http/dto"
)

var (
	ErrMissingEventID = errors.New("event_id is required")
	ErrInvalidRange   = errors.New("from is after to or the range is too long")
)

const (
	DefaultDedupTTL = 30 * 24 * time.Hour
	TableDays       = 14
)

type StatsService struct {
	log *slog.Logger
	// visits is nil when only the dedup cookie decides first visits.
	visits   repository.VisitLedger
	repo     repository.EventStore
	dedupTTL time.Duration
	now      func() time.Time
}

func NewStatsService(log *slog.Logger, repo repository.EventStore, visits repository.VisitLedger, dedupTTL time.Duration) *StatsService {
	if dedupTTL <= 0 {
		dedupTTL = DefaultDedupTTL
	}

	return &StatsService{
		log:      log,
		repo:     repo,
		visits:   visits,
		dedupTTL: dedupTTL,
		now:      time.Now,
	}
}

// UsesLedger reports whether first visits are tracked server side.
func (s *StatsService) UsesLedger() bool {
	return s.visits != nil
}

func (s *StatsService) DedupTTL() time.Duration {
	return s.dedupTTL
}

// Today is the current day key in server local time.
func (s *StatsService) Today() string {
	return stats.DayKey(s.now())
}

// TrackView counts one view of the event. seen tells whether the visitor
// already holds the dedup cookie for today; with a ledger configured the
// ledger decides instead, falling back to the cookie when it fails.
func (s *StatsService) TrackView(ctx context.Context, eventID string, seen bool, visitorID string) (dto.ViewResult, error) {
	const op = "stats_service.TrackView"

	eventID = strings.TrimSpace(eventID)
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID),
	)

	if eventID == "" {
		return dto.ViewResult{}, fmt.Errorf("%s: %w", op, ErrMissingEventID)
	}

	events, err := s.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load events", sl.Err(err))
		return dto.ViewResult{}, fmt.Errorf("%s: %w", op, err)
	}

	ev, ok := events.Get(eventID)
	if !ok {
		return dto.ViewResult{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	today := s.Today()
	first := !seen

	if s.visits != nil && visitorID != "" {
		marked, err := s.visits.MarkVisit(ctx, eventID, today, visitorID, s.dedupTTL)
		if err != nil {
			log.Warn("visit ledger unavailable, using cookie", sl.Err(err))
		} else {
			first = marked
		}
	}

	ev = ev.Clone()
	if ev.Stats == nil {
		ev.Stats = make(map[string]models.DayStats)
	}
	day := ev.Stats[today]

	ev.Views++
	day.Views++
	if first {
		ev.Visitors++
		day.Visitors++
	}
	ev.Stats[today] = day
	events.Set(eventID, ev)

	if err := s.repo.Save(ctx, events); err != nil {
		log.Error("failed to save events", sl.Err(err))
		return dto.ViewResult{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.EventViewsTotal.Inc()
	if first {
		metrics.EventVisitorsTotal.Inc()
	}

	log.Debug("view recorded", slog.Bool("first_visit", first))

	return dto.ViewResult{
		EventID:    eventID,
		Day:        today,
		Views:      ev.Views,
		Visitors:   ev.Visitors,
		FirstVisit: first,
	}, nil
}

// EventStats builds the statistics panel of one event. Missing from/to fall
// back to the default window of the unit.
func (s *StatsService) EventStats(ctx context.Context, eventID string, q dto.EventStatsQuery) (dto.EventStats, error) {
	const op = "stats_service.EventStats"

	unit, err := stats.ParseUnit(strings.TrimSpace(q.Unit))
	if err != nil {
		return dto.EventStats{}, fmt.Errorf("%s: %w", op, err)
	}

	today := s.Today()
	from, to, err := stats.RangeByUnit(today, unit)
	if err != nil {
		return dto.EventStats{}, fmt.Errorf("%s: %w", op, err)
	}

	if v := strings.TrimSpace(q.From); v != "" {
		if _, err := stats.ParseDay(v); err != nil {
			return dto.EventStats{}, fmt.Errorf("%s: %w", op, err)
		}
		from = v
	}
	if v := strings.TrimSpace(q.To); v != "" {
		if _, err := stats.ParseDay(v); err != nil {
			return dto.EventStats{}, fmt.Errorf("%s: %w", op, err)
		}
		to = v
	}
	// Day keys compare correctly as strings.
	if from > to {
		return dto.EventStats{}, fmt.Errorf("%s: %w", op, ErrInvalidRange)
	}
	if days, err := stats.RangeDays(from, to); err != nil || days > stats.MaxRangeDays {
		return dto.EventStats{}, fmt.Errorf("%s: %w", op, ErrInvalidRange)
	}

	events, err := s.repo.Load(ctx)
	if err != nil {
		return dto.EventStats{}, fmt.Errorf("%s: %w", op, err)
	}

	ev, ok := events.Get(eventID)
	if !ok {
		return dto.EventStats{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	last14 := stats.LastNDays(today, TableDays)
	table := make([]stats.Row, 0, len(last14))
	for i := len(last14) - 1; i >= 0; i-- {
		d := ev.Stats[last14[i]]
		table = append(table, stats.Row{Key: last14[i], Views: d.Views, Visitors: d.Visitors})
	}

	return dto.EventStats{
		Unit:     unit,
		From:     from,
		To:       to,
		Today:    today,
		Total:    models.DayStats{Views: ev.Views, Visitors: ev.Visitors},
		TodaySum: ev.Stats[today],
		Last7Sum: stats.Sum(ev.Stats, stats.LastNDays(today, 7)),
		RangeSum: stats.Sum(ev.Stats, stats.DateRange(from, to, stats.MaxRangeDays)),
		Table:    table,
		Series:   stats.Aggregate(ev.Stats, from, to, unit),
	}, nil
}
