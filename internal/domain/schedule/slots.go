// Package schedule generates the fixed business-hour candidate windows a
// hold can be placed into. Everything here is pure; callers supply "now".
package schedule

import (
	"errors"
	"time"

	"visitdesk/internal/domain/reservation"
)

var (
	ErrInvalidHours    = errors.New("open hour must be before close hour")
	ErrInvalidDuration = errors.New("slot duration must be positive")
)

type Rules struct {
	OpenHour      int
	CloseHour     int
	SlotDuration  time.Duration
	ClosedWeekday time.Weekday
	MinLeadTime   time.Duration
	HorizonDays   int
	Location      *time.Location
}

func (r Rules) Validate() error {
	if r.OpenHour < 0 || r.CloseHour > 24 || r.OpenHour >= r.CloseHour {
		return ErrInvalidHours
	}
	if r.SlotDuration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Candidates returns every bookable window within the horizon, earliest
// first, skipping the weekly closed day and anything inside the minimum
// lead time. Windows come back normalized to UTC.
func Candidates(rules Rules, now time.Time) ([]reservation.TimeWindow, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	loc := rules.location()
	local := now.In(loc)
	earliest := now.Add(rules.MinLeadTime)

	horizon := rules.HorizonDays
	if horizon <= 0 {
		horizon = 1
	}

	var out []reservation.TimeWindow
	for day := 0; day <= horizon; day++ {
		date := local.AddDate(0, 0, day)
		if date.Weekday() == rules.ClosedWeekday {
			continue
		}

		open := time.Date(date.Year(), date.Month(), date.Day(), rules.OpenHour, 0, 0, 0, loc)
		close := time.Date(date.Year(), date.Month(), date.Day(), rules.CloseHour, 0, 0, 0, loc)

		for start := open; !start.Add(rules.SlotDuration).After(close); start = start.Add(rules.SlotDuration) {
			if start.Before(earliest) {
				continue
			}
			window, err := reservation.NewTimeWindow(start, start.Add(rules.SlotDuration))
			if err != nil {
				return nil, err
			}
			out = append(out, window)
		}
	}
	return out, nil
}

// FirstFree walks the candidates and returns the earliest window that does
// not overlap any of the given busy intervals.
func FirstFree(rules Rules, now time.Time, busy []reservation.TimeWindow) (reservation.TimeWindow, bool, error) {
	candidates, err := Candidates(rules, now)
	if err != nil {
		return reservation.TimeWindow{}, false, err
	}

	for _, candidate := range candidates {
		if !overlapsAny(candidate, busy) {
			return candidate, true, nil
		}
	}
	return reservation.TimeWindow{}, false, nil
}

func overlapsAny(w reservation.TimeWindow, busy []reservation.TimeWindow) bool {
	for _, b := range busy {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}
