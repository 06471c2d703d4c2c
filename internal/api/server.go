// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/config"
	"github.com/cavakil/backoffice/internal/guard"
)

// New initialize a new Server and configure an Echo server.
func New(
	appConfig config.Config,
	logger *slog.Logger,
	opts ...Option,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	corsConfig := middleware.CORSConfig{}

	allowOrigins := appConfig.API.Server.Security.CORS.AllowOrigins
	if len(allowOrigins) > 0 {
		corsConfig.AllowOrigins = allowOrigins
		corsConfig.AllowCredentials = true
	}

	signingKey := config.ResolveSigningKey(appConfig.API.Server.Security.SigningKey)
	cookies := guard.CookieConfig{
		Name:       appConfig.API.Server.Session.CookieName,
		Production: appConfig.Production(),
		Alternates: appConfig.API.Server.Session.CookieAlternates,
	}
	routes := appConfig.API.Server.Routes
	edgeConfig := guard.EdgeConfig{
		AdminPrefix:   routes.AdminPrefix,
		AccountPrefix: routes.AccountPrefix,
		LoginPath:     routes.LoginPath,
		PublicRoot:    routes.PublicRoot,
		Cookies:       cookies,
	}

	tokens := authtoken.New(logger)
	edge := guard.NewEdge(logger, tokens, signingKey, edgeConfig)

	e.Use(otelecho.Middleware("cavakil-api"))
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(corsConfig))
	e.Use(edge.Middleware())

	s := &Server{
		Echo:       e,
		logger:     logger,
		appConfig:  appConfig,
		signingKey: signingKey,
		cookies:    cookies,
		edgeConfig: edge.Config(),
		guard:      guard.NewAPI(logger, tokens, signingKey, cookies),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// adminGroup returns the administrative API group. Every route in it is
// audited when an audit store is configured.
func (s *Server) adminGroup(
	e *echo.Echo,
) *echo.Group {
	g := e.Group(AdminAPIPrefix)
	if s.auditStore != nil {
		g.Use(auditMiddleware(s.auditStore, s.logger))
	}
	return g
}

// RegisterHandlers registers a list of handlers with the Echo instance.
func (s *Server) RegisterHandlers(
	handlers []func(e *echo.Echo),
) {
	for _, register := range handlers {
		register(s.Echo)
	}
}

// Start starts the Echo server with the configured port.
func (s *Server) Start() {
	go func() {
		s.logger.Info(
			"starting server",
			slog.Int("port", s.appConfig.API.Port),
		)
		listenAddr := fmt.Sprintf(":%d", s.appConfig.API.Port)
		if err := s.Echo.Start(listenAddr); err != nil && err != http.ErrServerClosed {
			s.logger.Error(
				"failed to start server",
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Stop gracefully shuts down the Echo server.
func (s *Server) Stop(
	ctx context.Context,
) {
	s.logger.Info("stopping server")

	if err := s.Echo.Shutdown(ctx); err != nil {
		s.logger.Error(
			"server shutdown failed",
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Info("server stopped gracefully")
	}
}
