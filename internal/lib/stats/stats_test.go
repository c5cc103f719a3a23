package stats

import (
	"testing"

	"event_gallery/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupKey(t *testing.T) {
	tests := []struct {
		day  string
		unit Unit
		want string
	}{
		{"2025-05-03", UnitDay, "2025-05-03"},
		{"2025-05-03", UnitWeek, "2025-04-28"}, // Saturday
		{"2025-04-28", UnitWeek, "2025-04-28"}, // Monday
		{"2025-05-04", UnitWeek, "2025-04-28"}, // Sunday
		{"2025-01-01", UnitWeek, "2024-12-30"},
		{"2025-05-03", UnitMonth, "2025-05"},
		{"2025-05-03", UnitYear, "2025"},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit)+"_"+tt.day, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupKey(tt.day, tt.unit))
		})
	}
}

func TestDateRange(t *testing.T) {
	assert.Equal(t,
		[]string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"},
		DateRange("2024-02-27", "2024-03-01", 400))

	assert.Len(t, DateRange("2024-01-01", "2024-12-31", 10), 10)
	assert.Empty(t, DateRange("2024-03-01", "2024-02-01", 400))
	assert.Empty(t, DateRange("garbage", "2024-02-01", 400))
	assert.Equal(t, []string{"2024-02-01"}, DateRange("2024-02-01", "2024-02-01", 400))
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("")
	require.NoError(t, err)
	assert.Equal(t, UnitDay, u)

	u, err = ParseUnit("month")
	require.NoError(t, err)
	assert.Equal(t, UnitMonth, u)

	_, err = ParseUnit("decade")
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func sampleStats() map[string]models.DayStats {
	return map[string]models.DayStats{
		"2024-12-30": {Views: 4, Visitors: 2},
		"2024-12-31": {Views: 1, Visitors: 1},
		"2025-01-01": {Views: 10, Visitors: 3},
		"2025-01-05": {Views: 2, Visitors: 2},
		"2025-01-06": {Views: 7, Visitors: 5},
		"2025-02-14": {Views: 9, Visitors: 4},
		"2026-01-01": {Views: 100, Visitors: 50}, // outside the range below
	}
}

func TestAggregate_Week(t *testing.T) {
	s := Aggregate(sampleStats(), "2024-12-30", "2025-01-12", UnitWeek)

	assert.Equal(t, []string{"2024-12-30", "2025-01-06"}, s.Labels)
	assert.Equal(t, []int64{17, 7}, s.Views)
	assert.Equal(t, []int64{8, 5}, s.Visitors)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, Row{Key: "2024-12-30", Views: 17, Visitors: 8}, s.Rows[0])
}

func TestAggregate_MonthIncludesEmptyGroups(t *testing.T) {
	s := Aggregate(sampleStats(), "2024-12-01", "2025-03-31", UnitMonth)

	assert.Equal(t, []string{"2024-12", "2025-01", "2025-02", "2025-03"}, s.Labels)
	assert.Equal(t, []int64{5, 19, 9, 0}, s.Views)
}

func TestAggregate_TotalsMatchAcrossUnits(t *testing.T) {
	daily := sampleStats()
	from, to := "2024-12-01", "2025-03-31"

	want := Sum(daily, DateRange(from, to, MaxRangeDays))
	assert.Equal(t, int64(33), want.Views)

	for _, u := range []Unit{UnitDay, UnitWeek, UnitMonth, UnitYear} {
		s := Aggregate(daily, from, to, u)

		var got models.DayStats
		for _, r := range s.Rows {
			got.Add(models.DayStats{Views: r.Views, Visitors: r.Visitors})
		}
		assert.Equal(t, want, got, "unit %s", u)
	}
}

func TestAggregate_LongRangeKeepsEveryDay(t *testing.T) {
	from, to := "2024-01-01", "2025-06-30"

	daily := make(map[string]models.DayStats)
	for _, day := range DateRange(from, to, MaxRangeDays) {
		daily[day] = models.DayStats{Views: 1, Visitors: 1}
	}
	require.Len(t, daily, 547)

	last := map[Unit]string{
		UnitDay:   "2025-06-30",
		UnitWeek:  "2025-06-30",
		UnitMonth: "2025-06",
		UnitYear:  "2025",
	}
	for u, label := range last {
		s := Aggregate(daily, from, to, u)

		var total int64
		for _, v := range s.Views {
			total += v
		}
		assert.Equal(t, int64(547), total, "unit %s", u)
		assert.Equal(t, label, s.Labels[len(s.Labels)-1], "unit %s", u)
	}
}

func TestRangeDays(t *testing.T) {
	n, err := RangeDays("2024-01-01", "2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, 547, n)

	n, err = RangeDays("2024-03-31", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = RangeDays("2024-04-01", "2024-03-31")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = RangeDays("2024-04-01", "soon")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestRangeByUnit(t *testing.T) {
	tests := []struct {
		unit Unit
		from string
	}{
		{UnitDay, "2025-03-25"},
		{UnitWeek, "2025-02-10"},
		{UnitMonth, "2024-05-01"},
		{UnitYear, "2021-03-31"},
	}
	for _, tt := range tests {
		from, to, err := RangeByUnit("2025-03-31", tt.unit)
		require.NoError(t, err)
		assert.Equal(t, tt.from, from, tt.unit)
		assert.Equal(t, "2025-03-31", to)
	}

	_, _, err := RangeByUnit("31.03.2025", UnitDay)
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestLastNDays(t *testing.T) {
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01"}, LastNDays("2025-03-01", 3))
	assert.Empty(t, LastNDays("2025-03-01", 0))
}
