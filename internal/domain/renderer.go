package domain

import "time"

// Point is a drawable marker handed to the rendering front-end. Projection is
// the front-end's job, so coordinates stay geographic.
type Point struct {
	ID         string   `json:"id"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Day        string   `json:"day"`
	Radius     float64  `json:"radius"`
	Fill       string   `json:"fill"`
	Stroke     string   `json:"stroke"`
	Brightness *float64 `json:"bright_ti4"`
	FRP        *float64 `json:"frp"`
	Tooltip    string   `json:"tooltip"`
}

// PointRenderer turns a detection on a given day into a drawable point.
type PointRenderer interface {
	Point(d Detection, day time.Time) Point
}
