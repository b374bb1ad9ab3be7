// Package server assembles the echo HTTP server: middlewares, the v1 API
// surface, and lifecycle management.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/tessa-labs/tessa/internal/profile"
	"github.com/tessa-labs/tessa/server/internal/observability"
	"github.com/tessa-labs/tessa/server/middleware"
	apiv1 "github.com/tessa-labs/tessa/server/router/api/v1"
	"github.com/tessa-labs/tessa/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
	metrics    *observability.Metrics
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		metrics:    observability.NewMetrics(),
	}

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(middleware.RequestLogger(slog.Default(), s.metrics))
	e.Use(middleware.NewRateLimiter(10, 20).Middleware())

	s.apiService = apiv1.NewAPIV1Service(profile.SessionSecret, profile, store)
	s.apiService.RegisterRoutes(e)

	e.GET("/api/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.metrics.TakeSnapshot())
	})

	return s, nil
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode, "version", s.Profile.Version)

	if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to start echo server")
	}
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}
