package models

// Stop is a physical stop location. Immutable from the engine's point of
// view; the admin system owns writes.
type Stop struct {
	ID   int64
	Name string
	Lat  float64
	Lng  float64
}

// Route is one bus line with a flat ticket price. A route operates one or
// more directions.
type Route struct {
	ID          int64
	Name        string
	BusType     string
	TicketPrice *float64
}

// Direction is one operating direction of a route (e.g. outbound), an
// ordered sequence of stop assignments.
type Direction struct {
	ID      int64
	RouteID int64
	Name    string
	SubName string
	Route   *Route
}

// RouteStop assigns a stop to a direction at a specific ordinal position.
// Each assignment is one graph node, so the same physical stop served by
// two lines is two distinct nodes. DistanceFromStart is the cumulative
// distance along the direction in km; nil when the operator has not
// measured it yet.
type RouteStop struct {
	ID                int64
	DirectionID       int64
	StopID            int64
	Order             int
	DistanceFromStart *float64
	Direction         *Direction
	Stop              *Stop
}

// Location is a WGS84 point supplied by a rider.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StopDistance pairs a stop with its walking distance from a query point.
type StopDistance struct {
	Stop       *Stop
	DistanceKm float64
}
