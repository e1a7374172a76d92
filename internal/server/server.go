package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/transportguide-api/internal/common/logger"
	"github.com/transportguide-api/pkg/transit/models"
)

// TripPlanner is the engine surface the HTTP layer depends on.
type TripPlanner interface {
	PlanTrip(ctx context.Context, from, to models.Location) (*models.TripPlan, error)
	Ready() bool
}

type Server struct {
	planner  TripPlanner
	logger   logger.Logger
	validate *validator.Validate

	frontendURL string
}

func New(planner TripPlanner, frontendURL string, logger logger.Logger) *Server {
	return &Server{
		planner:     planner,
		logger:      logger,
		validate:    validator.New(),
		frontendURL: frontendURL,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	if s.frontendURL != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, s.frontendURL)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/", s.health)
	router.POST("/find-route", s.findRoute)

	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "online",
		"message":     "Transport Guide API is running",
		"graph_ready": s.planner.Ready(),
	})
}
