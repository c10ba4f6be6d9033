package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrDayOutOfRange is returned when a day index is outside [0, DayCount()-1].
var ErrDayOutOfRange = errors.New("day index out of range")

// DayIndex is the ascending list of distinct calendar days in a detection set,
// with the detections of each day bucketed for selection.
type DayIndex struct {
	days    []time.Time
	buckets [][]Detection
}

// NewDayIndex buckets detections by calendar day. Within a day, detections
// keep their input order.
func NewDayIndex(detections []Detection) *DayIndex {
	byDay := make(map[time.Time][]Detection)
	for _, d := range detections {
		day := d.Day()
		byDay[day] = append(byDay[day], d)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	buckets := make([][]Detection, len(days))
	for i, day := range days {
		buckets[i] = byDay[day]
	}
	return &DayIndex{days: days, buckets: buckets}
}

// DayCount returns the number of distinct days.
func (x *DayIndex) DayCount() int {
	return len(x.days)
}

// DayAt returns the i-th day in ascending order.
func (x *DayIndex) DayAt(i int) (time.Time, error) {
	if err := x.check(i); err != nil {
		return time.Time{}, err
	}
	return x.days[i], nil
}

// Days returns a copy of the ordered day list.
func (x *DayIndex) Days() []time.Time {
	out := make([]time.Time, len(x.days))
	copy(out, x.days)
	return out
}

// SelectDay returns a copy of the detections that fall on the i-th day.
func (x *DayIndex) SelectDay(i int) ([]Detection, error) {
	if err := x.check(i); err != nil {
		return nil, err
	}
	out := make([]Detection, len(x.buckets[i]))
	copy(out, x.buckets[i])
	return out, nil
}

// IsOnDay reports whether d's truncated day equals day exactly. day is
// expected to be a value returned by DayAt.
func IsOnDay(d Detection, day time.Time) bool {
	return d.Day().Equal(day)
}

func (x *DayIndex) check(i int) error {
	if i < 0 || i >= len(x.days) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrDayOutOfRange, i, len(x.days))
	}
	return nil
}
