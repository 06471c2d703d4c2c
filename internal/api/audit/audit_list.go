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

package audit

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/api/common"
	auditstore "github.com/cavakil/backoffice/internal/audit"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
)

// GetAuditLogs returns a page of audit entries, newest first. Admin only.
func (a *Audit) GetAuditLogs(
	c echo.Context,
) error {
	if _, err := a.guard.RequireRole(c, permission.RoleAdmin); err != nil {
		return guard.Deny(c, err)
	}

	params, msg, ok := common.BindList(c)
	if !ok {
		return common.BadRequest(c, msg)
	}

	entries, total, err := a.store.List(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		a.logger.ErrorContext(
			c.Request().Context(),
			"failed to list audit entries",
			slog.String("error", err.Error()),
		)
		return common.Internal(c)
	}

	return c.JSON(http.StatusOK, common.ListResponse[auditstore.Entry]{
		TotalItems: total,
		Items:      entries,
	})
}
