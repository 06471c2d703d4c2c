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
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/api/common"
	"github.com/cavakil/backoffice/internal/permission"
)

// GetUser returns one actor.
func (h *Users) GetUser(
	c echo.Context,
) error {
	if _, ok, err := h.authorize(c, permission.ActionView); !ok {
		return err
	}

	a, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.storeError(c, "failed to get user", err)
	}

	return c.JSON(http.StatusOK, a.View())
}

// storeError maps actor store failures to responses.
func (h *Users) storeError(
	c echo.Context,
	msg string,
	err error,
) error {
	switch {
	case errors.Is(err, actor.ErrNotFound):
		return common.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, actor.ErrDuplicate):
		return common.Error(c, http.StatusConflict, err.Error())
	}

	h.logger.ErrorContext(
		c.Request().Context(),
		msg,
		slog.String("id", c.Param("id")),
		slog.String("error", err.Error()),
	)
	return common.Internal(c)
}
