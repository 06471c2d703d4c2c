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

// Package api assembles the HTTP surface: the edge guard, the JSON API,
// and the page routes.
package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/audit"
	"github.com/cavakil/backoffice/internal/config"
	"github.com/cavakil/backoffice/internal/guard"
)

// AdminAPIPrefix is the group under which the administrative API lives.
const AdminAPIPrefix = "/api/admin"

// Server implementation of the Server's API operations.
type Server struct {
	// Echo instance for the Server
	Echo *echo.Echo

	logger     *slog.Logger
	appConfig  config.Config
	signingKey string
	cookies    guard.CookieConfig
	edgeConfig guard.EdgeConfig
	guard      *guard.API
	auditStore audit.Store
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithAuditStore records administrative API calls to store.
func WithAuditStore(
	store audit.Store,
) Option {
	return func(s *Server) {
		s.auditStore = store
	}
}
