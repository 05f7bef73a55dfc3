package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/psagers/sat-browse/internal/metrics"
)

// registerRoutes sets up all routes for the server.
func (s *Server) registerRoutes() {
	// Health check routes (public)
	s.echo.GET("/health", s.handleHealthCheck)
	s.echo.GET("/health/live", s.handleLivenessCheck)

	// Prometheus metrics
	s.echo.GET("/metrics", metrics.Handler())

	// Inbound mail webhook (CloudMailin-style POST)
	s.echo.POST("/hooks/inbound", s.handleInbound)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}
