// Command validate runs integrity checks over a detection CSV using the same
// domain package as the service: parser soundness, all-or-nothing duration
// filtering, day index coverage, and repeatability. When an expected JSON
// fixture is given, the served detections are compared against it by ID.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/wildfires_combined.csv \
//	  -expected-json data/mock/served_detections.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/couchcryptid/wildfire-data/internal/adapter/csvsource"
	"github.com/couchcryptid/wildfire-data/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the detection CSV file")
	expectedJSON := flag.String("expected-json", "", "optional JSON array of the detections expected after filtering")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *expectedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, expectedPath string) int {
	fmt.Println("=== Wildfire Data Integrity Validation ===")
	fmt.Println()

	rows, err := csvsource.New(csvPath).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	parsed, rejected := domain.ParseRows(rows)
	filtered := domain.FilterByDuration(parsed)
	index := domain.NewDayIndex(filtered)

	phases := []*phase{
		validateParser(rows, parsed, rejected),
		validateFilter(parsed, filtered),
		validateDayIndex(filtered, index),
		validateRepeatability(rows, parsed, filtered),
	}

	if expectedPath != "" {
		expected, err := loadJSON[domain.Detection](expectedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load expected JSON: %v\n", err)
			return 1
		}
		phases = append(phases, validateFixture(filtered, expected))
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d read, %d rejected, %d parsed, %d served across %d days\n",
		len(rows), rejected, len(parsed), len(filtered), index.DayCount())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Parser ──
// Every parsed detection is placeable; every row is accounted for.

func validateParser(rows []domain.RawRow, parsed []domain.Detection, rejected int) *phase {
	p := &phase{name: "Phase 1: Parser soundness"}

	if len(parsed)+rejected != len(rows) {
		p.errorf("row accounting: %d parsed + %d rejected != %d read", len(parsed), rejected, len(rows))
	}

	for i, d := range parsed {
		if d.ID == "" {
			p.errorf("detection %d: empty ID", i)
		}
		if d.Timestamp.IsZero() {
			p.errorf("detection %d (%s): zero timestamp", i, d.ID)
		}
		if d.Timestamp.Location() != time.UTC {
			p.errorf("detection %d (%s): timestamp not in UTC", i, d.ID)
		}
		if math.IsNaN(d.Latitude) || d.Latitude < -90 || d.Latitude > 90 {
			p.errorf("detection %d (%s): latitude %g out of range", i, d.ID, d.Latitude)
		}
		if math.IsNaN(d.Longitude) || d.Longitude < -180 || d.Longitude > 180 {
			p.errorf("detection %d (%s): longitude %g out of range", i, d.ID, d.Longitude)
		}
		if math.IsInf(d.Brightness, 0) || math.IsInf(d.RadiativePower, 0) {
			p.errorf("detection %d (%s): infinite measurement kept", i, d.ID)
		}
	}
	return p
}

// ── Phase 2: Duration filter ──
// Survivors are a subsequence of the input, groups are kept whole, and every
// kept group spans at least two calendar days.

func validateFilter(parsed, filtered []domain.Detection) *phase {
	p := &phase{name: "Phase 2: Duration filter (all-or-nothing)"}

	j := 0
	for i := range parsed {
		if j < len(filtered) && parsed[i].ID == filtered[j].ID {
			j++
		}
	}
	if j != len(filtered) {
		p.errorf("survivors are not an order-preserving subsequence of the input (%d of %d matched)", j, len(filtered))
	}

	before := groupSizes(parsed)
	after := map[domain.LocationKey][]domain.Detection{}
	for _, d := range filtered {
		k := domain.KeyOf(d)
		after[k] = append(after[k], d)
	}

	for k, group := range after {
		if len(group) != before[k] {
			p.errorf("location %v partially kept: %d of %d detections", k, len(group), before[k])
		}
		if span := domain.DurationDays(group); span < 2 {
			p.errorf("location %v kept with a %d-day span", k, span)
		}
	}

	kept, dropped := domain.LocationCounts(parsed)
	if kept != len(after) {
		p.errorf("LocationCounts reports %d kept, filter kept %d", kept, len(after))
	}
	if kept+dropped != len(before) {
		p.errorf("LocationCounts covers %d locations, input has %d", kept+dropped, len(before))
	}
	return p
}

func groupSizes(detections []domain.Detection) map[domain.LocationKey]int {
	out := map[domain.LocationKey]int{}
	for _, d := range detections {
		out[domain.KeyOf(d)]++
	}
	return out
}

// ── Phase 3: Day index ──
// Days are strictly increasing, cover every detection, and the per-day
// selections partition the dataset.

func validateDayIndex(filtered []domain.Detection, index *domain.DayIndex) *phase {
	p := &phase{name: "Phase 3: Day index coverage and order"}

	days := index.Days()
	for i := 1; i < len(days); i++ {
		if !days[i].After(days[i-1]) {
			p.errorf("day %d (%s) is not after day %d (%s)",
				i, days[i].Format(domain.DayLayout), i-1, days[i-1].Format(domain.DayLayout))
		}
	}

	indexed := map[time.Time]bool{}
	for _, d := range days {
		indexed[d] = true
	}
	for _, d := range filtered {
		if !indexed[d.Day()] {
			p.errorf("detection %s on %s has no index entry", d.ID, d.Day().Format(domain.DayLayout))
		}
	}

	total := 0
	for i := range days {
		sel, err := index.SelectDay(i)
		if err != nil {
			p.errorf("SelectDay(%d): %v", i, err)
			continue
		}
		if len(sel) == 0 {
			p.errorf("day %s selects no detections", days[i].Format(domain.DayLayout))
		}
		total += len(sel)
	}
	if total != len(filtered) {
		p.errorf("per-day selections hold %d detections, dataset has %d", total, len(filtered))
	}

	if _, err := index.SelectDay(len(days)); err == nil {
		p.errorf("SelectDay(%d) past the last day did not fail", len(days))
	}
	return p
}

// ── Phase 4: Repeatability ──
// Parsing and filtering are pure: running them again changes nothing, and
// filtering the survivors is a no-op.

func validateRepeatability(rows []domain.RawRow, parsed, filtered []domain.Detection) *phase {
	p := &phase{name: "Phase 4: Repeatability"}
	opts := cmpopts.EquateNaNs()

	again, _ := domain.ParseRows(rows)
	if diff := cmp.Diff(parsed, again, opts); diff != "" {
		p.errorf("second parse differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(filtered, domain.FilterByDuration(parsed), opts); diff != "" {
		p.errorf("second filter differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(filtered, domain.FilterByDuration(filtered), opts); diff != "" {
		p.errorf("filtering survivors changed them (-first +refiltered):\n%s", diff)
	}

	for _, focal := range sampleFocals(filtered) {
		first := domain.BrightnessSeries(filtered, focal)
		second := domain.BrightnessSeries(filtered, focal)
		if diff := cmp.Diff(first, second, opts); diff != "" {
			p.errorf("series for %s differs between runs:\n%s", focal.ID, diff)
		}
	}
	return p
}

// sampleFocals picks up to five evenly spaced detections to chart.
func sampleFocals(detections []domain.Detection) []domain.Detection {
	const n = 5
	if len(detections) <= n {
		return detections
	}
	out := make([]domain.Detection, 0, n)
	step := len(detections) / n
	for i := 0; i < n; i++ {
		out = append(out, detections[i*step])
	}
	return out
}

// ── Phase 5: Fixture parity ──
// The served detections match a previously captured fixture.

func validateFixture(filtered, expected []domain.Detection) *phase {
	p := &phase{name: "Phase 5: Fixture parity (JSON)"}

	if len(filtered) != len(expected) {
		p.errorf("count: expected %d, got %d", len(expected), len(filtered))
	}

	byID := make(map[string]domain.Detection, len(filtered))
	for _, d := range filtered {
		byID[d.ID] = d
	}
	for i, want := range expected {
		got, ok := byID[want.ID]
		if !ok {
			p.errorf("fixture record %d: ID %q not served", i, want.ID)
			continue
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateNaNs(), cmpopts.EquateApproxTime(time.Second)); diff != "" {
			p.errorf("ID %s (-fixture +served):\n%s", want.ID, diff)
		}
	}
	return p
}
