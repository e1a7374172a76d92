package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/transportguide-api/internal/common/db"
	"github.com/transportguide-api/internal/engine/graph"
	"github.com/transportguide-api/pkg/transit/models"
)

// Store reads the transit network from Postgres. The stops table carries a
// PostGIS geography column which backs both spatial lookups; an external
// admin system owns all writes.
type Store struct {
	db *db.DB
}

func New(database *db.DB) *Store {
	return &Store{db: database}
}

// Snapshot loads every stop assignment with its direction, route and stop
// resolved in one query. Route and direction records are shared across the
// assignments referencing them.
func (s *Store) Snapshot(ctx context.Context) ([]*models.RouteStop, error) {
	query := `
		SELECT rs.id, rs.direction_id, rs.stop_id, rs."order", rs.distance_from_start,
		       d.direction, d.sub_name, d.route_id,
		       r.name, r.bus_type, r.ticket_price,
		       st.name, st.lat, st.lng
		FROM route_stops rs
		JOIN directions d ON d.id = rs.direction_id
		JOIN routes r ON r.id = d.route_id
		JOIN stops st ON st.id = rs.stop_id
		ORDER BY rs.direction_id, rs."order"
	`

	rows, err := s.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	routes := make(map[int64]*models.Route)
	directions := make(map[int64]*models.Direction)
	stops := make(map[int64]*models.Stop)

	var snapshot []*models.RouteStop
	for rows.Next() {
		var (
			rs                models.RouteStop
			distanceFromStart sql.NullFloat64
			dirName           string
			dirSubName        sql.NullString
			routeID           int64
			routeName         string
			busType           sql.NullString
			ticketPrice       sql.NullFloat64
			stopName          string
			stopLat, stopLng  float64
		)

		if err := rows.Scan(
			&rs.ID, &rs.DirectionID, &rs.StopID, &rs.Order, &distanceFromStart,
			&dirName, &dirSubName, &routeID,
			&routeName, &busType, &ticketPrice,
			&stopName, &stopLat, &stopLng,
		); err != nil {
			return nil, fmt.Errorf("scanning stop assignment: %w", err)
		}

		if distanceFromStart.Valid {
			v := distanceFromStart.Float64
			rs.DistanceFromStart = &v
		}

		route, ok := routes[routeID]
		if !ok {
			route = &models.Route{ID: routeID, Name: routeName, BusType: busType.String}
			if ticketPrice.Valid {
				v := ticketPrice.Float64
				route.TicketPrice = &v
			}
			routes[routeID] = route
		}

		direction, ok := directions[rs.DirectionID]
		if !ok {
			direction = &models.Direction{
				ID:      rs.DirectionID,
				RouteID: routeID,
				Name:    dirName,
				SubName: dirSubName.String,
				Route:   route,
			}
			directions[rs.DirectionID] = direction
		}

		stop, ok := stops[rs.StopID]
		if !ok {
			stop = &models.Stop{ID: rs.StopID, Name: stopName, Lat: stopLat, Lng: stopLng}
			stops[rs.StopID] = stop
		}

		rs.Direction = direction
		rs.Stop = stop
		snapshot = append(snapshot, &rs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot: %w", err)
	}

	s.db.Logger().Debug("Snapshot loaded",
		"assignments", len(snapshot),
		"directions", len(directions),
		"stops", len(stops))

	return snapshot, nil
}

// Nearby returns stops within maxKm of a point together with their walking
// distances, nearest first. ST_Distance on geography returns meters.
func (s *Store) Nearby(ctx context.Context, lat, lng, maxKm float64) ([]models.StopDistance, error) {
	query := `
		SELECT st.id, st.name, st.lat, st.lng,
		       ST_Distance(st.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) / 1000.0 AS distance_km
		FROM stops st
		WHERE ST_DWithin(st.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance_km
	`

	rows, err := s.db.DB().QueryContext(ctx, query, lng, lat, maxKm*1000)
	if err != nil {
		return nil, fmt.Errorf("querying nearby stops: %w", err)
	}
	defer rows.Close()

	var result []models.StopDistance
	for rows.Next() {
		var stop models.Stop
		var distanceKm float64
		if err := rows.Scan(&stop.ID, &stop.Name, &stop.Lat, &stop.Lng, &distanceKm); err != nil {
			return nil, fmt.Errorf("scanning nearby stop: %w", err)
		}
		result = append(result, models.StopDistance{Stop: &stop, DistanceKm: distanceKm})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nearby stops: %w", err)
	}

	return result, nil
}

// PairsWithin returns every unordered pair of distinct stops within
// maxMeters of each other. The a.id < b.id join emits each pair once; the
// graph builder inserts walking edges symmetrically.
func (s *Store) PairsWithin(ctx context.Context, maxMeters float64) ([]graph.StopPair, error) {
	query := `
		SELECT a.id, b.id, ST_Distance(a.location, b.location) / 1000.0 AS distance_km
		FROM stops a
		JOIN stops b ON a.id < b.id
		WHERE ST_DWithin(a.location, b.location, $1)
	`

	rows, err := s.db.DB().QueryContext(ctx, query, maxMeters)
	if err != nil {
		return nil, fmt.Errorf("querying stop pairs: %w", err)
	}
	defer rows.Close()

	var pairs []graph.StopPair
	for rows.Next() {
		var pair graph.StopPair
		if err := rows.Scan(&pair.StopA, &pair.StopB, &pair.DistanceKm); err != nil {
			return nil, fmt.Errorf("scanning stop pair: %w", err)
		}
		pairs = append(pairs, pair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stop pairs: %w", err)
	}

	return pairs, nil
}

// Fingerprint summarizes the current state of the four network tables.
// It changes whenever rows are added or removed, which is how the admin
// system edits data (updates are modelled as delete + insert). The refresh
// scheduler compares fingerprints to decide when to rebuild.
func (s *Store) Fingerprint(ctx context.Context) (string, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM routes),      (SELECT COALESCE(MAX(id), 0) FROM routes),
		       (SELECT COUNT(*) FROM directions),  (SELECT COALESCE(MAX(id), 0) FROM directions),
		       (SELECT COUNT(*) FROM stops),       (SELECT COALESCE(MAX(id), 0) FROM stops),
		       (SELECT COUNT(*) FROM route_stops), (SELECT COALESCE(MAX(id), 0) FROM route_stops)
	`

	var counts, maxIDs [4]int64
	err := s.db.DB().QueryRowContext(ctx, query).Scan(
		&counts[0], &maxIDs[0],
		&counts[1], &maxIDs[1],
		&counts[2], &maxIDs[2],
		&counts[3], &maxIDs[3],
	)
	if err != nil {
		return "", fmt.Errorf("querying data fingerprint: %w", err)
	}

	return fmt.Sprintf("r%d.%d-d%d.%d-s%d.%d-rs%d.%d",
		counts[0], maxIDs[0],
		counts[1], maxIDs[1],
		counts[2], maxIDs[2],
		counts[3], maxIDs[3]), nil
}
