// Command firereport loads a detection CSV through the same parse, filter, and
// index steps as the service and prints a summary. Given a coordinate, it also
// prints the brightness series and caption for the nearest detection.
//
// Usage:
//
//	go run ./cmd/firereport -csv data/wildfires_combined.csv
//	go run ./cmd/firereport -csv data/wildfires_combined.csv -lat 39.76 -lon -121.62
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/couchcryptid/wildfire-data/internal/adapter/csvsource"
	"github.com/couchcryptid/wildfire-data/internal/domain"
	"github.com/couchcryptid/wildfire-data/internal/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to the detection CSV file")
	lat := flag.Float64("lat", math.NaN(), "latitude of the fire to chart")
	lon := flag.Float64("lon", math.NaN(), "longitude of the fire to chart")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}

	rows, err := csvsource.New(*csvPath).Load(context.Background())
	if err != nil {
		return err
	}

	parsed, rejected := domain.ParseRows(rows)
	kept, dropped := domain.LocationCounts(parsed)
	ds := domain.NewDataset(domain.FilterByDuration(parsed))

	fmt.Printf("rows read:          %d\n", len(rows))
	fmt.Printf("rows rejected:      %d\n", rejected)
	fmt.Printf("locations kept:     %d\n", kept)
	fmt.Printf("locations dropped:  %d\n", dropped)
	fmt.Printf("detections served:  %d\n", ds.Len())

	days := ds.Index().Days()
	fmt.Printf("days indexed:       %d\n", len(days))
	if len(days) > 0 {
		fmt.Printf("day range:          %s .. %s\n",
			days[0].Format(domain.DayLayout), days[len(days)-1].Format(domain.DayLayout))
	}

	if math.IsNaN(*lat) || math.IsNaN(*lon) {
		return nil
	}
	return report(os.Stdout, ds, *lat, *lon)
}

func report(w io.Writer, ds *domain.Dataset, lat, lon float64) error {
	focal, ok := ds.FindNearest(lat, lon)
	if !ok {
		return fmt.Errorf("no detection within %.2f° of (%g, %g)", domain.ProximityThreshold, lat, lon)
	}

	fmt.Fprintf(w, "\nnearest detection %s at (%g, %g) on %s\n",
		focal.ID, focal.Latitude, focal.Longitude, focal.Day().Format(domain.DayLayout))
	fmt.Fprintln(w, render.Tooltip(focal))

	series := ds.Series(focal)
	fmt.Fprintln(w)
	for _, p := range series {
		mean := "n/a"
		if p.Samples > 0 {
			mean = fmt.Sprintf("%.2f", p.MeanBrightness)
		}
		fmt.Fprintf(w, "  %s  %8s  (%d samples)  %s\n",
			p.Day.Format(domain.DayLayout), mean, p.Samples, render.BrightnessColor(p.MeanBrightness))
	}

	if a, ok := domain.Annotate(series); ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.StartLabel)
		fmt.Fprintln(w, a.EndLabel)
		fmt.Fprintln(w, a.DurationLabel)
	}
	return nil
}
