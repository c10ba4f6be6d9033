package domain

// FilterByDuration drops every location whose detections all fall on a single
// calendar day. Locations are grouped by LocationKey and a group is kept or
// discarded as a whole. Survivors keep their input order.
func FilterByDuration(detections []Detection) []Detection {
	groups := groupByLocation(detections)

	keep := make([]bool, len(detections))
	for _, idx := range groups {
		if durationDaysAt(detections, idx) <= 1 {
			continue
		}
		for _, i := range idx {
			keep[i] = true
		}
	}

	out := make([]Detection, 0, len(detections))
	for i := range detections {
		if keep[i] {
			out = append(out, detections[i])
		}
	}
	return out
}

// DurationDays is the inclusive number of calendar days spanned by the
// detections: 1 when they share a day, 2 for 23:59 on one day and 00:01 on the
// next. It returns 0 for an empty slice.
func DurationDays(detections []Detection) int {
	idx := make([]int, len(detections))
	for i := range idx {
		idx[i] = i
	}
	return durationDaysAt(detections, idx)
}

func durationDaysAt(detections []Detection, idx []int) int {
	if len(idx) == 0 {
		return 0
	}
	first := detections[idx[0]].Timestamp
	last := first
	for _, i := range idx[1:] {
		ts := detections[i].Timestamp
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	return daysBetween(DayOf(first), DayOf(last)) + 1
}

// LocationCounts reports how many LocationKey groups FilterByDuration would
// keep and drop for the given detections.
func LocationCounts(detections []Detection) (kept, dropped int) {
	groups := groupByLocation(detections)
	for _, idx := range groups {
		if durationDaysAt(detections, idx) > 1 {
			kept++
		} else {
			dropped++
		}
	}
	return kept, dropped
}

// groupByLocation maps each LocationKey to the indexes of its detections.
func groupByLocation(detections []Detection) map[LocationKey][]int {
	groups := make(map[LocationKey][]int)
	for i := range detections {
		k := KeyOf(detections[i])
		groups[k] = append(groups[k], i)
	}
	return groups
}
