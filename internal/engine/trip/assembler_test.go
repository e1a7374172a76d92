package trip

import (
	"math"
	"testing"

	"github.com/transportguide-api/pkg/transit/models"
)

func fptr(v float64) *float64 { return &v }

func makeDirection(id int64, price *float64) *models.Direction {
	return &models.Direction{
		ID:   id,
		Name: "outbound",
		Route: &models.Route{
			ID:          id * 100,
			Name:        "Line",
			BusType:     "standard",
			TicketPrice: price,
		},
	}
}

func makeNode(id int64, dir *models.Direction, stop *models.Stop, order int, dist *float64) *models.RouteStop {
	return &models.RouteStop{
		ID:                id,
		DirectionID:       dir.ID,
		StopID:            stop.ID,
		Order:             order,
		DistanceFromStart: dist,
		Direction:         dir,
		Stop:              stop,
	}
}

func TestRebuildPath(t *testing.T) {
	prev := map[int64]int64{4: 3, 3: 2, 2: 1}

	path := RebuildPath(4, prev)

	want := []int64{1, 2, 3, 4}
	if len(path) != len(want) {
		t.Fatalf("path length = %d, want %d", len(path), len(want))
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %d, want %d", i, path[i], want[i])
		}
	}
}

func TestRebuildPathSingleNode(t *testing.T) {
	path := RebuildPath(7, map[int64]int64{})
	if len(path) != 1 || path[0] != 7 {
		t.Errorf("path = %v, want [7]", path)
	}
}

func TestAssembleSingleSegment(t *testing.T) {
	dir := makeDirection(1, fptr(10))
	s1 := &models.Stop{ID: 1, Name: "A", Lat: 0, Lng: 0}
	s2 := &models.Stop{ID: 2, Name: "B", Lat: 0.01, Lng: 0}
	s3 := &models.Stop{ID: 3, Name: "C", Lat: 0.02, Lng: 0}

	path := []*models.RouteStop{
		makeNode(1, dir, s1, 0, fptr(0)),
		makeNode(2, dir, s2, 1, fptr(2)),
		makeNode(3, dir, s3, 2, fptr(5)),
	}

	plan := Assemble(path, 0, 0)

	if len(plan.RouteSegments) != 1 {
		t.Fatalf("segment count = %d, want 1", len(plan.RouteSegments))
	}

	seg := plan.RouteSegments[0]
	if seg.Direction.SegmentDistanceKm != 5 {
		t.Errorf("segment distance = %v, want 5", seg.Direction.SegmentDistanceKm)
	}
	// 5 km * 2.0 min/km + 3 stops * 0.3 min = 10.9 min
	if seg.Direction.SegmentDurationMins != 10.9 {
		t.Errorf("segment duration = %v, want 10.9", seg.Direction.SegmentDurationMins)
	}
	if seg.Route.TicketPrice != 10 {
		t.Errorf("segment cost = %v, want 10", seg.Route.TicketPrice)
	}
	if seg.TransferFromPrevious != nil {
		t.Error("first segment should not carry a transfer")
	}
	if len(seg.Stops) != 3 {
		t.Errorf("segment stop count = %d, want 3", len(seg.Stops))
	}

	if plan.Summary.TotalCost != 10 {
		t.Errorf("total cost = %v, want 10", plan.Summary.TotalCost)
	}
	if plan.Summary.TotalDurationMins != 11 { // 10.9 rounded to whole minutes
		t.Errorf("total duration = %v, want 11", plan.Summary.TotalDurationMins)
	}
	if plan.Summary.FromStop.ID != 1 || plan.Summary.ToStop.ID != 3 {
		t.Errorf("trip endpoints = %d..%d, want 1..3", plan.Summary.FromStop.ID, plan.Summary.ToStop.ID)
	}
}

func TestAssembleSameStopTransfer(t *testing.T) {
	dir1 := makeDirection(1, fptr(2))
	dir2 := makeDirection(2, fptr(3))
	sA := &models.Stop{ID: 1, Name: "A", Lat: 0, Lng: 0}
	sB := &models.Stop{ID: 2, Name: "B", Lat: 0.01, Lng: 0}
	sC := &models.Stop{ID: 3, Name: "C", Lat: 0.02, Lng: 0}

	path := []*models.RouteStop{
		makeNode(1, dir1, sA, 0, fptr(0)),
		makeNode(2, dir1, sB, 1, fptr(1)),
		makeNode(3, dir2, sB, 0, fptr(0)), // re-board at the same stop
		makeNode(4, dir2, sC, 1, fptr(2)),
	}

	plan := Assemble(path, 0, 0)

	if len(plan.RouteSegments) != 2 {
		t.Fatalf("segment count = %d, want 2", len(plan.RouteSegments))
	}

	transfer := plan.RouteSegments[1].TransferFromPrevious
	if transfer == nil {
		t.Fatal("second segment missing transfer")
	}
	if !transfer.IsSameStop {
		t.Error("transfer at identical stop not flagged as same-stop")
	}
	if transfer.WalkDistKm != 0 {
		t.Errorf("same-stop transfer walk distance = %v, want 0", transfer.WalkDistKm)
	}
	if transfer.WalkDurationMins != 0 {
		t.Errorf("same-stop transfer walk duration = %v, want 0", transfer.WalkDurationMins)
	}

	if plan.Summary.TotalCost != 5 {
		t.Errorf("total cost = %v, want 5", plan.Summary.TotalCost)
	}
	// seg1: 1*2.0 + 2*0.3 = 2.6; seg2: 2*2.0 + 2*0.3 = 4.6; transfer 0
	if plan.Summary.TotalDurationMins != 7 {
		t.Errorf("total duration = %v, want 7", plan.Summary.TotalDurationMins)
	}
}

func TestAssembleSegmentCountMatchesDirectionChanges(t *testing.T) {
	dirs := []*models.Direction{makeDirection(1, nil), makeDirection(2, nil), makeDirection(3, nil)}
	stop := func(id int64) *models.Stop { return &models.Stop{ID: id, Lat: float64(id) * 0.001} }

	var path []*models.RouteStop
	var id int64
	for _, dir := range dirs {
		for i := 0; i < 2; i++ {
			id++
			path = append(path, makeNode(id, dir, stop(id), i, fptr(float64(i))))
		}
	}

	plan := Assemble(path, 0, 0)

	if len(plan.RouteSegments) != 3 {
		t.Errorf("segment count = %d, want direction changes + 1 = 3", len(plan.RouteSegments))
	}
}

func TestAssembleSingleNodePath(t *testing.T) {
	dir := makeDirection(1, nil)
	s := &models.Stop{ID: 1, Name: "A"}

	plan := Assemble([]*models.RouteStop{makeNode(1, dir, s, 0, fptr(0))}, 0.1, 0.2)

	if len(plan.RouteSegments) != 1 {
		t.Fatalf("segment count = %d, want 1", len(plan.RouteSegments))
	}
	if plan.RouteSegments[0].Route.TicketPrice != DefaultTicketPrice {
		t.Errorf("unset ticket price = %v, want default %v",
			plan.RouteSegments[0].Route.TicketPrice, DefaultTicketPrice)
	}
}

func TestAssembleBoundaryWalks(t *testing.T) {
	dir := makeDirection(1, nil)
	s1 := &models.Stop{ID: 1, Name: "A"}
	s2 := &models.Stop{ID: 2, Name: "B", Lat: 0.01}

	path := []*models.RouteStop{
		makeNode(1, dir, s1, 0, fptr(0)),
		makeNode(2, dir, s2, 1, fptr(1)),
	}

	plan := Assemble(path, 0.3, 0.2)

	if plan.Summary.WalkingDistanceToStartKm != 0.3 {
		t.Errorf("walk to start = %v, want 0.3", plan.Summary.WalkingDistanceToStartKm)
	}
	if plan.Summary.WalkingDistanceToEndKm != 0.2 {
		t.Errorf("walk to end = %v, want 0.2", plan.Summary.WalkingDistanceToEndKm)
	}
	if plan.Summary.TotalWalkingDistanceKm != 0.5 {
		t.Errorf("total walking distance = %v, want 0.5", plan.Summary.TotalWalkingDistanceKm)
	}
	// (0.3 + 0.2) km * 10 min/km = 5 min
	if plan.Summary.WalkingDurationMins != 5 {
		t.Errorf("walking duration = %v, want 5", plan.Summary.WalkingDurationMins)
	}
	// ride: 1*2.0 + 2*0.3 = 2.6; plus 5 boundary walk = 7.6 -> 8
	if math.Abs(plan.Summary.TotalDurationMins-8) > 1e-9 {
		t.Errorf("total duration = %v, want 8", plan.Summary.TotalDurationMins)
	}
}
