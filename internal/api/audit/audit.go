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

// Package audit serves the administrative audit log.
package audit

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	auditstore "github.com/cavakil/backoffice/internal/audit"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
)

// RoleChecker is the subset of the API guard used by audit handlers.
type RoleChecker interface {
	RequireRole(
		c echo.Context,
		roles ...permission.Role,
	) (*guard.Principal, error)
}

// Audit implements the audit log endpoints.
type Audit struct {
	logger *slog.Logger
	store  auditstore.Store
	guard  RoleChecker
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	store auditstore.Store,
	checker RoleChecker,
) *Audit {
	return &Audit{
		logger: logger,
		store:  store,
		guard:  checker,
	}
}
