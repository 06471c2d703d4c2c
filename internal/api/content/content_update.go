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

package content

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/api/common"
	"github.com/cavakil/backoffice/internal/content"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/validation"
)

// PutDocument replaces a document's data.
func (h *Content) PutDocument(
	c echo.Context,
) error {
	res, ok, err := resource(c)
	if !ok {
		return err
	}
	p, ok, err := h.authorize(c, res, permission.ActionEdit)
	if !ok {
		return err
	}

	var req DocumentRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(c, "invalid request body")
	}
	if msg, ok := validation.Struct(req); !ok {
		return common.BadRequest(c, msg)
	}

	doc := &content.Document{
		ID:        c.Param("id"),
		Resource:  res,
		Data:      req.Data,
		UpdatedBy: p.ID,
	}
	if err := h.store.Update(c.Request().Context(), doc); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return common.Error(c, http.StatusNotFound, err.Error())
		}

		h.logger.ErrorContext(
			c.Request().Context(),
			"failed to update document",
			slog.String("resource", string(res)),
			slog.String("id", doc.ID),
			slog.String("error", err.Error()),
		)
		return common.Internal(c)
	}

	return c.JSON(http.StatusOK, doc)
}
