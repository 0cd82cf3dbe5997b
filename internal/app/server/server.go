package server

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkShelf/internal/app/service"
	"github.com/sifan077/LinkShelf/internal/http/handler"
	"github.com/sifan077/LinkShelf/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles what the HTTP server needs to serve the link API.
type Dependencies struct {
	Logger   *zap.Logger
	Links    service.LinkService
	Database handler.HealthChecker
	// Metrics is optional; requests are not measured when nil.
	Metrics        *middleware.Metrics
	AllowedOrigins []string
	// ExposeErrors includes internal error details in 500 responses.
	ExposeErrors bool
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with the link API routes.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "LinkShelf",
		DisableStartupMessage: true,
		ErrorHandler:          handler.NewErrorHandler(deps.Logger, deps.ExposeErrors),
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// App exposes the underlying Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve accepts connections on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.RequestID())
	if s.deps.Metrics != nil {
		s.app.Use(s.deps.Metrics.Handler())
	}
	s.app.Use(
		middleware.Logger(s.deps.Logger),
		middleware.Recovery(s.deps.Logger),
		middleware.CORS(s.deps.AllowedOrigins),
	)
}

func (s *Server) registerRoutes() {
	apiHandler := handler.NewAPIHandler(handler.APIDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.Links,
		Database:    s.deps.Database,
	})
	apiHandler.Register(s.app)
}
