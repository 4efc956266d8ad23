package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
)

var jst = time.FixedZone("regional", 9*3600)

func TestNextRunDaily(t *testing.T) {
	after := time.Date(2024, 1, 15, 14, 30, 0, 0, jst)
	next, err := NextRun(domain.ScheduleTypeDaily, &domain.ScheduleConfig{Hour: 9, Minute: 0}, after, jst)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 16, 9, 0, 0, 0, jst).Unix(), next)
}

func TestNextRunWeeklyAfterMondaySend(t *testing.T) {
	// A Monday 09:00 send schedules the following Monday 09:00.
	monday := time.Date(2024, 1, 15, 9, 0, 0, 0, jst)
	require.Equal(t, time.Monday, monday.Weekday())

	dow := 1
	next, err := NextRun(domain.ScheduleTypeWeekly, &domain.ScheduleConfig{Hour: 9, Minute: 0, DayOfWeek: &dow}, monday, jst)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 22, 9, 0, 0, 0, jst).Unix(), next)
}

func TestNextRunWeeklyDefaultsToMonday(t *testing.T) {
	wednesday := time.Date(2024, 1, 17, 12, 0, 0, 0, jst)
	require.Equal(t, time.Wednesday, wednesday.Weekday())

	next, err := NextRun(domain.ScheduleTypeWeekly, &domain.ScheduleConfig{Hour: 8, Minute: 15}, wednesday, jst)
	require.NoError(t, err)

	got := time.Unix(next, 0).In(jst)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, time.Date(2024, 1, 22, 8, 15, 0, 0, jst).Unix(), next)
}

func TestNextRunMonthlyClampsToLastDay(t *testing.T) {
	day := 31
	jan31 := time.Date(2024, 1, 31, 9, 0, 0, 0, jst)
	next, err := NextRun(domain.ScheduleTypeMonthly, &domain.ScheduleConfig{Hour: 9, DayOfMonth: &day}, jan31, jst)
	require.NoError(t, err)

	// 2024 is a leap year.
	assert.Equal(t, time.Date(2024, 2, 29, 9, 0, 0, 0, jst).Unix(), next)
}

func TestNextRunMonthlySameDay(t *testing.T) {
	day := 5
	next, err := NextRun(domain.ScheduleTypeMonthly, &domain.ScheduleConfig{Hour: 7, Minute: 45, DayOfMonth: &day}, time.Date(2024, 3, 5, 7, 45, 0, 0, jst), jst)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 4, 5, 7, 45, 0, 0, jst).Unix(), next)
}

func TestNextRunNoneErrors(t *testing.T) {
	_, err := NextRun(domain.ScheduleTypeNone, nil, time.Now(), jst)
	assert.Error(t, err)
}
