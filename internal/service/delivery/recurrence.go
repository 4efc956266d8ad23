package delivery

import (
	"fmt"
	"time"

	"github.com/postwind/postwind/internal/domain"
)

// NextRun computes the next occurrence of a recurring campaign after
// the given instant, evaluated in the deployment's regional time zone.
//
//   - daily: the next calendar day at hour:minute
//   - weekly: the next dayOfWeek (0=Sunday, default Monday), strictly
//     after today
//   - monthly: the same day next month, clamped to the target month's
//     last day when the day does not exist
func NextRun(scheduleType domain.ScheduleType, cfg *domain.ScheduleConfig, after time.Time, loc *time.Location) (int64, error) {
	if cfg == nil {
		cfg = &domain.ScheduleConfig{}
	}
	base := after.In(loc)

	switch scheduleType {
	case domain.ScheduleTypeDaily:
		next := time.Date(base.Year(), base.Month(), base.Day()+1, cfg.Hour, cfg.Minute, 0, 0, loc)
		return next.Unix(), nil

	case domain.ScheduleTypeWeekly:
		target := time.Monday
		if cfg.DayOfWeek != nil {
			target = time.Weekday(*cfg.DayOfWeek)
		}
		days := (int(target) - int(base.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		next := time.Date(base.Year(), base.Month(), base.Day()+days, cfg.Hour, cfg.Minute, 0, 0, loc)
		return next.Unix(), nil

	case domain.ScheduleTypeMonthly:
		day := base.Day()
		if cfg.DayOfMonth != nil {
			day = *cfg.DayOfMonth
		}
		year, month := base.Year(), base.Month()+1
		if d := lastDayOfMonth(year, month); day > d {
			day = d
		}
		next := time.Date(year, month, day, cfg.Hour, cfg.Minute, 0, 0, loc)
		return next.Unix(), nil
	}

	return 0, fmt.Errorf("schedule type %s does not recur", scheduleType)
}

// lastDayOfMonth returns the number of days in the month. Month may
// overflow past December; time.Date normalises it.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
