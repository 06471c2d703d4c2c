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

package guard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/permission"
)

// Default route prefixes and redirect targets.
const (
	DefaultAdminPrefix   = "/admin"
	DefaultAccountPrefix = "/account"
	DefaultLoginPath     = "/login"
	DefaultPublicRoot    = "/"
)

// EdgeConfig configures the route-prefix guard.
type EdgeConfig struct {
	AdminPrefix   string
	AccountPrefix string
	LoginPath     string
	PublicRoot    string
	Cookies       CookieConfig
}

// Edge redirects navigation to protected areas that lacks a suitable
// session. It never distinguishes individual resources.
type Edge struct {
	verifier
	cfg     EdgeConfig
	metrics *recorder
}

// NewEdge creates a new Edge guard.
func NewEdge(
	logger *slog.Logger,
	tokens TokenValidator,
	signingKey string,
	cfg EdgeConfig,
) *Edge {
	if cfg.AdminPrefix == "" {
		cfg.AdminPrefix = DefaultAdminPrefix
	}
	if cfg.AccountPrefix == "" {
		cfg.AccountPrefix = DefaultAccountPrefix
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.PublicRoot == "" {
		cfg.PublicRoot = DefaultPublicRoot
	}

	return &Edge{
		verifier: verifier{
			logger:     logger,
			tokens:     tokens,
			signingKey: signingKey,
			cookies:    cfg.Cookies,
		},
		cfg:     cfg,
		metrics: newRecorder(),
	}
}

// Config returns the configuration with defaults applied.
func (g *Edge) Config() EdgeConfig {
	return g.cfg
}

// Middleware returns the echo middleware enforcing the prefix policy.
// Paths outside both prefixes pass through untouched.
func (g *Edge) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			switch {
			case HasPathPrefix(path, g.cfg.AdminPrefix):
				claims, ok := g.fromCookies(c)
				if !ok {
					return g.redirect(c, g.cfg.LoginPath)
				}
				if !claims.Role.IsAdministrative() {
					return g.redirect(c, g.cfg.PublicRoot)
				}
				setClaims(c, claims)
			case HasPathPrefix(path, g.cfg.AccountPrefix):
				claims, ok := g.fromCookies(c)
				if !ok || claims.Role != permission.RoleUser {
					return g.redirect(c, g.cfg.PublicRoot)
				}
				setClaims(c, claims)
			default:
				return next(c)
			}

			g.metrics.record(c.Request().Context(), "edge", outcomeAllow)
			return next(c)
		}
	}
}

func (g *Edge) redirect(
	c echo.Context,
	target string,
) error {
	g.metrics.record(c.Request().Context(), "edge", outcomeRedirect)
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

// HasPathPrefix reports whether path is prefix itself or lies beneath it
// on a segment boundary.
func HasPathPrefix(
	path string,
	prefix string,
) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
