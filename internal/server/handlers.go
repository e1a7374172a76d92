package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/transportguide-api/internal/engine"
	"github.com/transportguide-api/pkg/transit/models"
)

// locationPayload uses pointer fields so that a missing coordinate is
// distinguishable from a legitimate 0.
type locationPayload struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

type routeRequest struct {
	FromLocation locationPayload `json:"from_location"`
	ToLocation   locationPayload `json:"to_location"`
}

func (s *Server) findRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	from := models.Location{Lat: *req.FromLocation.Lat, Lng: *req.FromLocation.Lng}
	to := models.Location{Lat: *req.ToLocation.Lat, Lng: *req.ToLocation.Lng}

	plan, err := s.planner.PlanTrip(c.Request.Context(), from, to)
	if err != nil {
		s.respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (s *Server) respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrTooFar):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Distance too far for local transit search."})
	case errors.Is(err, engine.ErrNoNearbyStops):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Could not find stops near your location."})
	case errors.Is(err, engine.ErrNoPath):
		c.JSON(http.StatusNotFound, gin.H{"detail": "No path found between these locations."})
	case errors.Is(err, engine.ErrGraphNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Routing data is still loading."})
	default:
		s.logger.Error("Route planning failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
