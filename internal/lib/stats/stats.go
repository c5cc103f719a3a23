// Package stats rolls per-day view/visitor buckets into day, week, month and
// year series. Day keys use the YYYY-MM-DD layout; weeks start on Monday.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"event_gallery/internal/domain/models"
)

const DayLayout = "2006-01-02"

type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

var (
	ErrInvalidUnit = errors.New("invalid unit")
	ErrInvalidDay  = errors.New("invalid day key")
)

func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case "":
		return UnitDay, nil
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return Unit(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

// MaxRangeDays bounds how many day keys one query may span, whatever the
// unit. Five years of daily buckets fit.
const MaxRangeDays = 2500

// DayKey formats t as a bucket key in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return t, nil
}

// RangeDays counts the days of from..to inclusive. A reversed range is 0.
func RangeDays(from, to string) (int, error) {
	start, err := ParseDay(from)
	if err != nil {
		return 0, err
	}
	end, err := ParseDay(to)
	if err != nil {
		return 0, err
	}
	if start.After(end) {
		return 0, nil
	}
	// Both bounds are UTC midnights, so the difference is whole days.
	return int(end.Sub(start).Hours()/24) + 1, nil
}

func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, n)), nil
}

// DateRange lists every day from..to inclusive, at most maxDays entries.
// Malformed bounds or from > to give an empty range.
func DateRange(from, to string, maxDays int) []string {
	start, err := ParseDay(from)
	if err != nil {
		return nil
	}
	end, err := ParseDay(to)
	if err != nil || start.After(end) {
		return nil
	}

	var out []string
	for cur := start; !cur.After(end) && len(out) < maxDays; cur = cur.AddDate(0, 0, 1) {
		out = append(out, DayKey(cur))
	}
	return out
}

// GroupKey maps a day key to the label of the bucket it falls into.
func GroupKey(day string, u Unit) string {
	switch u {
	case UnitMonth:
		if len(day) >= 7 {
			return day[:7]
		}
	case UnitYear:
		if len(day) >= 4 {
			return day[:4]
		}
	case UnitWeek:
		t, err := ParseDay(day)
		if err != nil {
			return day
		}
		sinceMonday := (int(t.Weekday()) + 6) % 7
		return DayKey(t.AddDate(0, 0, -sinceMonday))
	}
	return day
}

type Row struct {
	Key      string `json:"key"`
	Views    int64  `json:"views"`
	Visitors int64  `json:"visitors"`
}

type Series struct {
	Unit     Unit     `json:"unit"`
	Labels   []string `json:"labels"`
	Views    []int64  `json:"views"`
	Visitors []int64  `json:"visitors"`
	Rows     []Row    `json:"rows"`
}

// Aggregate sums the day buckets of from..to into groups of unit u. Every
// group touched by the range appears, including empty ones. Callers keep
// the range within MaxRangeDays.
func Aggregate(daily map[string]models.DayStats, from, to string, u Unit) Series {
	groups := make(map[string]*models.DayStats)

	for _, day := range DateRange(from, to, MaxRangeDays) {
		key := GroupKey(day, u)
		acc, ok := groups[key]
		if !ok {
			acc = &models.DayStats{}
			groups[key] = acc
		}
		acc.Add(daily[day])
	}

	labels := make([]string, 0, len(groups))
	for k := range groups {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	s := Series{
		Unit:     u,
		Labels:   labels,
		Views:    make([]int64, len(labels)),
		Visitors: make([]int64, len(labels)),
		Rows:     make([]Row, len(labels)),
	}
	for i, k := range labels {
		g := groups[k]
		s.Views[i] = g.Views
		s.Visitors[i] = g.Visitors
		s.Rows[i] = Row{Key: k, Views: g.Views, Visitors: g.Visitors}
	}
	return s
}

// Sum adds up the buckets named by keys; missing days count as zero.
func Sum(daily map[string]models.DayStats, keys []string) models.DayStats {
	var total models.DayStats
	for _, k := range keys {
		total.Add(daily[k])
	}
	return total
}

// RangeByUnit returns the default window shown for a unit, ending today.
func RangeByUnit(today string, u Unit) (from, to string, err error) {
	t, err := ParseDay(today)
	if err != nil {
		return "", "", err
	}

	switch u {
	case UnitWeek:
		from = DayKey(t.AddDate(0, 0, -7*7))
	case UnitMonth:
		from = DayKey(t.AddDate(0, -11, 0))
	case UnitYear:
		from = DayKey(t.AddDate(-4, 0, 0))
	default:
		from = DayKey(t.AddDate(0, 0, -6))
	}
	return from, today, nil
}

// LastNDays returns the n day keys ending today, oldest first.
func LastNDays(today string, n int) []string {
	if n <= 0 {
		return nil
	}
	from, err := AddDays(today, -(n - 1))
	if err != nil {
		return nil
	}
	return DateRange(from, today, n)
}
