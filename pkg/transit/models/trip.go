package models

// Trip response types. All distances are kilometers, durations minutes,
// costs currency-agnostic numbers.

type StopInfo struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type RouteSummary struct {
	Name        string  `json:"name"`
	BusType     string  `json:"bus_type"`
	TicketPrice float64 `json:"ticket_price"`
}

type DirectionSummary struct {
	Direction           string  `json:"direction"`
	SubName             string  `json:"sub_name,omitempty"`
	SegmentDistanceKm   float64 `json:"segment_distance_km"`
	SegmentDurationMins float64 `json:"segment_duration_mins"`
}

// TransferInfo describes the walk between two consecutive ride segments.
// IsSameStop is true when the rider re-boards at the identical physical stop.
type TransferInfo struct {
	FromStop         StopInfo `json:"from_stop"`
	ToStop           StopInfo `json:"to_stop"`
	WalkDistKm       float64  `json:"walk_dist_km"`
	WalkDurationMins float64  `json:"walk_duration_mins"`
	IsSameStop       bool     `json:"is_same_stop"`
}

// RouteSegment is one continuous ride on a single direction.
// TransferFromPrevious tells the rider how to reach this segment; nil on
// the first segment.
type RouteSegment struct {
	TransferFromPrevious *TransferInfo    `json:"transfer_from_previous"`
	Route                RouteSummary     `json:"route"`
	Direction            DirectionSummary `json:"direction"`
	Stops                []StopInfo       `json:"stops"`
}

type TripSummary struct {
	TotalDurationMins        float64  `json:"total_duration_mins"`
	TotalCost                float64  `json:"total_cost"`
	TotalWalkingDistanceKm   float64  `json:"total_walking_distance_km"`
	WalkingDurationMins      float64  `json:"walking_duration_mins"`
	FromStop                 StopInfo `json:"from_stop"`
	ToStop                   StopInfo `json:"to_stop"`
	WalkingDistanceToStartKm float64  `json:"walking_distance_to_start_km"`
	WalkingDistanceToEndKm   float64  `json:"walking_distance_to_end_km"`
}

// TripPlan is the full rider-facing answer to a routing request.
type TripPlan struct {
	Summary       TripSummary    `json:"summary"`
	RouteSegments []RouteSegment `json:"route_segments"`
}
