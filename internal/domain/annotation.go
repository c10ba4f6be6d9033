package domain

import (
	"fmt"
	"time"
)

// The combined dataset covers May 31 through August 30. Series that touch
// either edge were truncated by the window, not by the fire.
const (
	windowStartMonth = time.May
	windowStartDay   = 31
	windowEndMonth   = time.August
	windowEndDay     = 30

	// LongFireDays is the span at which the duration label stops counting.
	LongFireDays = 92

	labelDateLayout = "Jan 02"
)

// Annotation summarises a brightness series for the chart caption.
type Annotation struct {
	StartDay            time.Time
	EndDay              time.Time
	SpanDays            int
	StartedBeforeWindow bool
	EndedAfterWindow    bool
	StartLabel          string
	EndLabel            string
	DurationLabel       string
}

// Annotate derives start, end, and span labels from a series ordered by day.
// It returns false for an empty series.
func Annotate(series []SeriesPoint) (Annotation, bool) {
	if len(series) == 0 {
		return Annotation{}, false
	}

	start := series[0].Day
	end := series[len(series)-1].Day
	a := Annotation{
		StartDay:            start,
		EndDay:              end,
		SpanDays:            daysBetween(start, end) + 1,
		StartedBeforeWindow: start.Month() == windowStartMonth && start.Day() == windowStartDay,
		EndedAfterWindow:    end.Month() == windowEndMonth && end.Day() == windowEndDay,
	}

	a.StartLabel = "Fire Start: " + start.Format(labelDateLayout)
	if a.StartedBeforeWindow {
		a.StartLabel = "Fire Start: started before Jun 1"
	}

	a.EndLabel = "Fire End: " + end.Format(labelDateLayout)
	if a.EndedAfterWindow {
		a.EndLabel = "Fire End: ended after Aug 30"
	}

	a.DurationLabel = durationLabel(a.SpanDays, a.StartedBeforeWindow || a.EndedAfterWindow)
	return a, true
}

func durationLabel(span int, truncated bool) string {
	if span >= LongFireDays {
		return fmt.Sprintf("Duration: over %d days", LongFireDays)
	}
	unit := "day"
	if span > 1 {
		unit = "days"
	}
	label := fmt.Sprintf("Duration: %d %s", span, unit)
	if truncated {
		label += " or more"
	}
	return label
}
