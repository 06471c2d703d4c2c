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

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/api/common"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/validation"
)

// PostUser creates an actor. Creating an administrative actor requires
// the caller to be an admin regardless of users:add.
func (h *Users) PostUser(
	c echo.Context,
) error {
	p, ok, err := h.authorize(c, permission.ActionAdd)
	if !ok {
		return err
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(c, "invalid request body")
	}
	if msg, ok := validation.Struct(req); !ok {
		return common.BadRequest(c, msg)
	}

	if msg, ok := credentialsFor(req); !ok {
		return common.BadRequest(c, msg)
	}
	if req.Role.IsAdministrative() && p.Role != permission.RoleAdmin {
		return guard.Deny(c, guard.ErrForbidden)
	}

	a := &actor.Actor{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	}
	if req.Role == permission.RoleSubAdmin {
		a.Permissions = req.Permissions.Normalize()
	}
	if req.Password != "" {
		hash, err := h.hash(req.Password)
		if err != nil {
			h.logger.ErrorContext(
				c.Request().Context(),
				"failed to hash password",
				slog.String("error", err.Error()),
			)
			return common.Internal(c)
		}
		a.PasswordHash = hash
	}

	if err := h.store.Create(c.Request().Context(), a); err != nil {
		return h.storeError(c, "failed to create user", err)
	}

	h.logger.InfoContext(
		c.Request().Context(),
		"user created",
		slog.String("id", a.ID),
		slog.String("role", string(a.Role)),
		slog.String("by", p.ID),
	)

	return c.JSON(http.StatusCreated, a.View())
}

// credentialsFor checks that req carries the credential its role signs in
// with.
func credentialsFor(
	req CreateRequest,
) (string, bool) {
	if req.Role.IsAdministrative() {
		if req.Email == "" || req.Password == "" {
			return "email and password are required for " + string(req.Role), false
		}
		return "", true
	}
	if req.Phone == "" {
		return "phone is required for user", false
	}
	return "", true
}
