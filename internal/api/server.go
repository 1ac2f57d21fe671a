// Package api serves the device inventory over HTTP. It is read-only.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/camscan/internal/api/models"
	"github.com/smazurov/camscan/internal/logging"
	"github.com/smazurov/camscan/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Options configures the API server.
type Options struct {
	Devices Devices
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	CORS    *CORSConfig
}

// Server is the camscan HTTP API.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	devices    Devices
	logger     *slog.Logger
}

func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("camscan API", version.String())
	config.Info.Description = "Capture devices found on this host and their capability trees"

	if opts.CORS != nil {
		AddCORSHandler(mux, *opts.CORS)
	}

	api := humago.New(mux, config)
	if opts.CORS != nil {
		api.UseMiddleware(NewCORSMiddleware(*opts.CORS))
	}
	api.UseMiddleware(HTTPLoggingMiddleware)

	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	s := &Server{
		api:     api,
		mux:     mux,
		devices: opts.Devices,
		logger:  logging.GetLogger("api"),
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler, including /metrics.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr until Stop is called. It returns
// http.ErrServerClosed after a clean stop.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting camscan API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down, waiting briefly for requests in flight.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Devices: len(s.devices.List()),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		v := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   v.Version,
				GitCommit: v.GitCommit,
				BuildDate: v.BuildDate,
				GoVersion: v.GoVersion,
				Platform:  v.Platform,
			},
		}, nil
	})

	registerDeviceRoutes(s.api, s.devices)
}
