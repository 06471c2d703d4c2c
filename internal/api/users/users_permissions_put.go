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

package users

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/api/common"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/validation"
)

// PutUserPermissions replaces a sub-admin's permission map. Only admins
// may do this. Sessions already issued keep their embedded snapshot until
// they expire.
func (h *Users) PutUserPermissions(
	c echo.Context,
) error {
	p, err := h.guard.RequireRole(c, permission.RoleAdmin)
	if err != nil {
		return guard.Deny(c, err)
	}

	var req PermissionsRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(c, "invalid request body")
	}
	if msg, ok := validation.Struct(req); !ok {
		return common.BadRequest(c, msg)
	}

	a, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.storeError(c, "failed to get user", err)
	}
	if a.Role != permission.RoleSubAdmin {
		return common.Error(
			c,
			http.StatusUnprocessableEntity,
			"permissions apply to sub-admins only",
		)
	}

	a.Permissions = req.Permissions.Normalize()
	if err := h.store.Update(c.Request().Context(), a); err != nil {
		return h.storeError(c, "failed to update user", err)
	}

	h.logger.InfoContext(
		c.Request().Context(),
		"sub-admin permissions replaced",
		slog.String("id", a.ID),
		slog.String("by", p.ID),
	)

	return c.JSON(http.StatusOK, a.View())
}
