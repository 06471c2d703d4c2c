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

package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/guard"
)

// GetSession returns the caller's role, permissions, and derived
// capability table.
func (a *Auth) GetSession(
	c echo.Context,
) error {
	p, err := a.sessions.Authenticate(c)
	if err != nil {
		return guard.Deny(c, err)
	}

	return c.JSON(http.StatusOK, Snapshot(c, p))
}

// Snapshot builds the session description for p.
func Snapshot(
	c echo.Context,
	p *guard.Principal,
) SnapshotResponse {
	snap := p.Snapshot()
	resp := SnapshotResponse{
		Subject:      p.ID,
		Role:         p.Role,
		Contact:      p.Contact,
		Permissions:  p.Permissions,
		Capabilities: snap.Capabilities(),
	}
	if claims, ok := guard.ClaimsFrom(c); ok && claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		resp.ExpiresAt = &exp
	}

	return resp
}
