// Package http provides the HTTP transport: the inbound mail webhook plus
// health and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/labstack/echo/v4"

	satbrowse "github.com/psagers/sat-browse"
	"github.com/psagers/sat-browse/internal/queue"
	"github.com/psagers/sat-browse/internal/validation"
)

// DefaultTimeout bounds database work done inside a handler.
const DefaultTimeout = 5 * time.Second

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr string

	// InboundKey is compared against the webhook's key parameter.
	// Empty means the webhook accepts unauthenticated posts (dev mode).
	InboundKey string

	// Domain services
	senderService  satbrowse.SenderService
	requestService satbrowse.RequestService

	// Trigger mechanism
	queue queue.Queue
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr       string
	InboundKey string
	Logger     *slog.Logger

	SenderService  satbrowse.SenderService
	RequestService satbrowse.RequestService
	Queue          queue.Queue
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:           cfg.Addr,
		InboundKey:     cfg.InboundKey,
		logger:         cfg.Logger,
		senderService:  cfg.SenderService,
		requestService: cfg.RequestService,
		queue:          cfg.Queue,
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = validation.New()

	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// withTimeout creates a context with a timeout for handler operations.
func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), DefaultTimeout)
}

// log returns the request-scoped logger.
func (s *Server) log(c echo.Context) *slog.Logger {
	if logger, ok := c.Get("logger").(*slog.Logger); ok {
		return logger
	}
	return s.logger
}
