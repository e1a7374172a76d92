package engine

import "errors"

// Expected planning outcomes. The transport layer maps these onto response
// statuses; none of them indicate a defect.
var (
	// ErrGraphNotReady means no graph build has completed yet.
	ErrGraphNotReady = errors.New("routing graph not ready")
	// ErrTooFar means the origin and destination are beyond local transit range.
	ErrTooFar = errors.New("distance too far for local transit search")
	// ErrNoNearbyStops means one of the endpoints has no stop within walking range.
	ErrNoNearbyStops = errors.New("no stops near location")
	// ErrNoPath means the reachable start and destination stops are not connected.
	ErrNoPath = errors.New("no path found between locations")
)
