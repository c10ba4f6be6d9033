package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/wildfire-data/internal/adapter/boundary"
	"github.com/couchcryptid/wildfire-data/internal/domain"
	"github.com/couchcryptid/wildfire-data/internal/render"
)

const geocodeTimeout = 2 * time.Second

type daysResponse struct {
	Days []string `json:"days"`
}

type pointsResponse struct {
	Index  int            `json:"index"`
	Day    string         `json:"day"`
	Points []domain.Point `json:"points"`
}

type seriesPoint struct {
	Day            string   `json:"day"`
	MeanBrightness *float64 `json:"mean_brightness"`
	Samples        int      `json:"samples"`
}

type annotation struct {
	StartDay            string `json:"start_day"`
	EndDay              string `json:"end_day"`
	SpanDays            int    `json:"span_days"`
	StartedBeforeWindow bool   `json:"started_before_window"`
	EndedAfterWindow    bool   `json:"ended_after_window"`
	StartLabel          string `json:"start_label"`
	EndLabel            string `json:"end_label"`
	DurationLabel       string `json:"duration_label"`
}

type seriesResponse struct {
	Focal      domain.Detection `json:"focal"`
	Place      string           `json:"place,omitempty"`
	Series     []seriesPoint    `json:"series"`
	Annotation annotation       `json:"annotation"`
}

type scatterPoint struct {
	ID         string            `json:"id"`
	FRP        *float64          `json:"frp"`
	Brightness *float64          `json:"bright_ti4"`
	Confidence domain.Confidence `json:"confidence"`
	Color      string            `json:"color"`
}

type scatterResponse struct {
	Domains render.ScatterDomains `json:"domains"`
	Points  []scatterPoint        `json:"points"`
}

// dataset fetches the loaded dataset or answers 503.
func (s *Server) dataset(w http.ResponseWriter) (*domain.Dataset, bool) {
	ds, ok := s.store.Dataset()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
	}
	return ds, ok
}

func (s *Server) handleDays(w http.ResponseWriter, _ *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	days := ds.Index().Days()
	out := daysResponse{Days: make([]string, len(days))}
	for i, d := range days {
		out.Days[i] = d.Format(domain.DayLayout)
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleDayPoints(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "day index must be an integer")
		return
	}
	day, err := ds.Index().DayAt(i)
	if errors.Is(err, domain.ErrDayOutOfRange) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	detections, err := ds.SelectDay(i)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	styler, _ := s.styles.get(ds)
	sharedobs.WriteJSON(w, http.StatusOK, pointsResponse{
		Index:  i,
		Day:    day.Format(domain.DayLayout),
		Points: render.Points(styler, detections, day),
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, "lat and lon must be numbers")
		return
	}

	focal, found := ds.FindNearest(lat, lon)
	if !found {
		writeError(w, http.StatusNotFound, "no detection near the given point")
		return
	}
	series := ds.Series(focal)
	a, _ := toAnnotation(series)

	out := seriesResponse{
		Focal:      focal,
		Place:      s.place(r.Context(), focal),
		Series:     make([]seriesPoint, len(series)),
		Annotation: a,
	}
	for i, p := range series {
		out.Series[i] = seriesPoint{
			Day:            p.Day.Format(domain.DayLayout),
			MeanBrightness: domain.FinitePtr(p.MeanBrightness),
			Samples:        p.Samples,
		}
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func toAnnotation(series []domain.SeriesPoint) (annotation, bool) {
	a, ok := domain.Annotate(series)
	if !ok {
		return annotation{}, false
	}
	return annotation{
		StartDay:            a.StartDay.Format(domain.DayLayout),
		EndDay:              a.EndDay.Format(domain.DayLayout),
		SpanDays:            a.SpanDays,
		StartedBeforeWindow: a.StartedBeforeWindow,
		EndedAfterWindow:    a.EndedAfterWindow,
		StartLabel:          a.StartLabel,
		EndLabel:            a.EndLabel,
		DurationLabel:       a.DurationLabel,
	}, true
}

// place labels the focal detection. Lookup failures only cost the label.
func (s *Server) place(ctx context.Context, focal domain.Detection) string {
	if s.geocoder == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	result, err := s.geocoder.ReverseGeocode(ctx, focal.Latitude, focal.Longitude)
	if err != nil {
		s.logger.Debug("place lookup skipped", "id", focal.ID, "error", err)
		return ""
	}
	return result.Label()
}

func (s *Server) handleScatter(w http.ResponseWriter, _ *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	_, domains := s.styles.get(ds)
	detections := ds.Detections()
	out := scatterResponse{Domains: domains, Points: make([]scatterPoint, len(detections))}
	for i, d := range detections {
		out.Points[i] = scatterPoint{
			ID:         d.ID,
			FRP:        domain.FinitePtr(d.RadiativePower),
			Brightness: domain.FinitePtr(d.Brightness),
			Confidence: d.Confidence,
			Color:      render.ConfidenceColor(d.Confidence),
		}
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleBoundary(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.dataset(w); !ok {
		return
	}
	doc, err := s.store.Boundaries().Get(r.PathValue("name"))
	switch {
	case errors.Is(err, boundary.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// styleCache holds the scales fitted to the current dataset. The dataset
// never changes after load, so they are computed once.
type styleCache struct {
	mu      sync.Mutex
	ds      *domain.Dataset
	styler  *render.Styler
	domains render.ScatterDomains
}

func (c *styleCache) get(ds *domain.Dataset) (*render.Styler, render.ScatterDomains) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ds != ds {
		detections := ds.Detections()
		c.ds = ds
		c.styler = render.NewStyler(detections)
		c.domains = render.ScatterDomain(detections)
	}
	return c.styler, c.domains
}
