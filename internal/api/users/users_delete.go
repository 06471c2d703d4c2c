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
)

// DeleteUser removes an actor. Only an admin may remove another admin,
// and nobody may remove themselves.
func (h *Users) DeleteUser(
	c echo.Context,
) error {
	p, ok, err := h.authorize(c, permission.ActionDelete)
	if !ok {
		return err
	}

	id := c.Param("id")
	if id == p.ID {
		return common.Error(c, http.StatusUnprocessableEntity, "cannot delete own account")
	}

	target, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return h.storeError(c, "failed to get user", err)
	}
	if target.Role == permission.RoleAdmin && p.Role != permission.RoleAdmin {
		return guard.Deny(c, guard.ErrForbidden)
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return h.storeError(c, "failed to delete user", err)
	}

	h.logger.InfoContext(
		c.Request().Context(),
		"user deleted",
		slog.String("id", id),
		slog.String("role", string(target.Role)),
		slog.String("by", p.ID),
	)

	return c.NoContent(http.StatusNoContent)
}
