// Package domain models satellite wildfire detections and the data-shaping
// operations behind the map and chart views.
//
// # Data Source
//
// Detections come from NASA FIRMS VIIRS active-fire exports merged into a single
// delimited file (wildfires_combined.csv). Each row is one hotspot observed on
// one satellite overpass. The file is loaded once at startup and never changes
// for the lifetime of the process.
//
// # Column Conventions
//
//	datetime    acquisition date-time. ISO-8601 with or without a zone; values
//	            without a zone are read as UTC.
//	latitude    decimal degrees, [-90, 90]
//	longitude   decimal degrees, [-180, 180]
//	bright_ti4  I-4 channel brightness temperature in Kelvin. Display only.
//	frp         fire radiative power in MW. Display only.
//	confidence  "l", "n", "h" (or the spelled-out words). Missing means nominal.
//
// Rows with an unusable datetime or coordinate are dropped without error. A bad
// brightness or FRP value is kept as NaN because it only affects styling.
//
// # Calendar Days
//
// Every operation that talks about a "day" truncates the detection timestamp to
// 00:00 UTC. See [DayOf].
//
// # Two Grouping Strategies
//
// The duration filter groups by [LocationKey], coordinates rounded to two
// decimals. The brightness series groups by a ±[ProximityThreshold] bounding box
// around the clicked detection. The two neighbourhoods differ and are never
// interchanged.
//
// # Observation Window
//
// The combined dataset starts on May 31 and ends on August 30. A series whose
// first day is May 31 or whose last day is August 30 is cut off by the window,
// so its annotation reports an open-ended start, end, or duration. See [Annotate].
package domain
