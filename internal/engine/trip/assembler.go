package trip

import (
	"math"

	"github.com/transportguide-api/internal/engine/geo"
	"github.com/transportguide-api/pkg/transit/models"
)

const (
	// TransitSpeedMinPerKm converts ride distance into minutes.
	TransitSpeedMinPerKm = 2.0
	// StopPenaltyMin is the dwell time charged per stop served.
	StopPenaltyMin = 0.3
	// WalkSpeedMinPerKm converts walking distance into minutes.
	WalkSpeedMinPerKm = 10.0
	// DefaultTicketPrice applies when a route has no price set.
	DefaultTicketPrice = 0.0
)

// RebuildPath walks the predecessor map from the search's end node back to
// its originating start node and returns the node ids in travel order.
func RebuildPath(end int64, prev map[int64]int64) []int64 {
	path := []int64{end}
	for {
		p, ok := prev[end]
		if !ok {
			break
		}
		end = p
		path = append(path, end)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Assemble turns a resolved node path into the rider-facing trip plan.
// walkStartKm and walkEndKm are the boundary walks from the true origin to
// the first stop and from the last stop to the true destination.
func Assemble(path []*models.RouteStop, walkStartKm, walkEndKm float64) *models.TripPlan {
	segments := segment(path)

	totalDuration := 0.0
	totalCost := 0.0
	segmentsOut := make([]models.RouteSegment, 0, len(segments))

	for i, seg := range segments {
		segDist := segmentDistance(seg)
		segDuration := segDist*TransitSpeedMinPerKm + float64(len(seg))*StopPenaltyMin
		segCost := ticketPrice(seg[0])

		totalDuration += segDuration
		totalCost += segCost

		var transfer *models.TransferInfo
		if i > 0 {
			prevStop := segments[i-1][len(segments[i-1])-1].Stop
			currStop := seg[0].Stop

			walkKm := geo.Distance(prevStop.Lat, prevStop.Lng, currStop.Lat, currStop.Lng)
			walkMins := round(walkKm*WalkSpeedMinPerKm, 1)
			totalDuration += walkMins

			transfer = &models.TransferInfo{
				FromStop:         stopInfo(prevStop),
				ToStop:           stopInfo(currStop),
				WalkDistKm:       round(walkKm, 3),
				WalkDurationMins: walkMins,
				IsSameStop:       prevStop.ID == currStop.ID,
			}
		}

		stops := make([]models.StopInfo, 0, len(seg))
		for _, rs := range seg {
			stops = append(stops, stopInfo(rs.Stop))
		}

		segmentsOut = append(segmentsOut, models.RouteSegment{
			TransferFromPrevious: transfer,
			Route: models.RouteSummary{
				Name:        routeName(seg[0]),
				BusType:     busType(seg[0]),
				TicketPrice: segCost,
			},
			Direction: models.DirectionSummary{
				Direction:           directionName(seg[0]),
				SubName:             directionSubName(seg[0]),
				SegmentDistanceKm:   round(segDist, 2),
				SegmentDurationMins: round(segDuration, 1),
			},
			Stops: stops,
		})
	}

	initialWalkMins := walkStartKm * WalkSpeedMinPerKm
	finalWalkMins := walkEndKm * WalkSpeedMinPerKm

	firstStop := path[0].Stop
	lastStop := path[len(path)-1].Stop

	return &models.TripPlan{
		Summary: models.TripSummary{
			TotalDurationMins:        round(totalDuration+initialWalkMins+finalWalkMins, 0),
			TotalCost:                totalCost,
			TotalWalkingDistanceKm:   round(walkStartKm+walkEndKm, 2),
			WalkingDurationMins:      round(initialWalkMins+finalWalkMins, 0),
			FromStop:                 stopInfo(firstStop),
			ToStop:                   stopInfo(lastStop),
			WalkingDistanceToStartKm: round(walkStartKm, 3),
			WalkingDistanceToEndKm:   round(walkEndKm, 3),
		},
		RouteSegments: segmentsOut,
	}
}

// segment splits the node path into maximal runs sharing one direction.
// A single-node path yields a single one-node segment.
func segment(path []*models.RouteStop) [][]*models.RouteStop {
	var segments [][]*models.RouteStop
	var current []*models.RouteStop

	for _, rs := range path {
		if len(current) == 0 || current[len(current)-1].DirectionID == rs.DirectionID {
			current = append(current, rs)
		} else {
			segments = append(segments, current)
			current = []*models.RouteStop{rs}
		}
	}
	return append(segments, current)
}

// segmentDistance is the cumulative-distance span of the segment. Zero
// when either endpoint has no measured distance.
func segmentDistance(seg []*models.RouteStop) float64 {
	first := seg[0].DistanceFromStart
	last := seg[len(seg)-1].DistanceFromStart
	if first == nil || last == nil {
		return 0
	}
	return math.Abs(*last - *first)
}

func ticketPrice(rs *models.RouteStop) float64 {
	if rs.Direction == nil || rs.Direction.Route == nil || rs.Direction.Route.TicketPrice == nil {
		return DefaultTicketPrice
	}
	return *rs.Direction.Route.TicketPrice
}

func routeName(rs *models.RouteStop) string {
	if rs.Direction == nil || rs.Direction.Route == nil {
		return ""
	}
	return rs.Direction.Route.Name
}

func busType(rs *models.RouteStop) string {
	if rs.Direction == nil || rs.Direction.Route == nil {
		return ""
	}
	return rs.Direction.Route.BusType
}

func directionName(rs *models.RouteStop) string {
	if rs.Direction == nil {
		return ""
	}
	return rs.Direction.Name
}

func directionSubName(rs *models.RouteStop) string {
	if rs.Direction == nil {
		return ""
	}
	return rs.Direction.SubName
}

func stopInfo(s *models.Stop) models.StopInfo {
	return models.StopInfo{ID: s.ID, Name: s.Name, Lat: s.Lat, Lng: s.Lng}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
