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

// Package pages serves the navigable areas of the site. Protected pages
// sit behind the edge guard and describe the session that reached them.
package pages

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/api/auth"
	"github.com/cavakil/backoffice/internal/guard"
)

// PageResponse describes a rendered page.
type PageResponse struct {
	Page    string                 `json:"page"`
	Path    string                 `json:"path"`
	Session *auth.SnapshotResponse `json:"session,omitempty"`
}

// Pages implements the page endpoints.
type Pages struct {
	sessions auth.SessionResolver
}

// New factory to create a new instance.
func New(
	sessions auth.SessionResolver,
) *Pages {
	return &Pages{sessions: sessions}
}

// GetPublic serves public pages. A session is described when present.
func (p *Pages) GetPublic(
	name string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := PageResponse{Page: name, Path: c.Request().URL.Path}
		if principal, err := p.sessions.Authenticate(c); err == nil {
			snap := auth.Snapshot(c, principal)
			resp.Session = &snap
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// GetProtected serves pages under a guarded prefix. The edge guard has
// already verified the session; reaching here without one is a wiring
// error and is answered as unauthenticated.
func (p *Pages) GetProtected(
	name string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := p.sessions.Authenticate(c)
		if err != nil {
			return guard.Deny(c, err)
		}

		snap := auth.Snapshot(c, principal)
		return c.JSON(http.StatusOK, PageResponse{
			Page:    name,
			Path:    c.Request().URL.Path,
			Session: &snap,
		})
	}
}
