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

// Package common holds request and response shapes shared by the API
// handler packages.
package common

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/validation"
)

// Pagination defaults.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams are the query parameters accepted by list endpoints.
type ListParams struct {
	Limit  int `query:"limit"  validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// ListResponse is a page of items and the total item count.
type ListResponse[T any] struct {
	TotalItems int `json:"total_items"`
	Items      []T `json:"items"`
}

// BindList parses and validates list parameters, applying defaults. It
// returns a message suitable for a 400 response when invalid.
func BindList(
	c echo.Context,
) (ListParams, string, bool) {
	var p ListParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &p); err != nil {
		return p, "limit and offset must be integers", false
	}
	if msg, ok := validation.Struct(p); !ok {
		return p, msg, false
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}

	return p, "", true
}

// Error writes the standard JSON error body.
func Error(
	c echo.Context,
	status int,
	msg string,
) error {
	return c.JSON(status, guard.ErrorResponse{Error: msg})
}

// BadRequest writes a 400 with msg.
func BadRequest(
	c echo.Context,
	msg string,
) error {
	return Error(c, http.StatusBadRequest, msg)
}

// Internal writes a 500 without exposing detail.
func Internal(
	c echo.Context,
) error {
	return Error(c, http.StatusInternalServerError, "internal error")
}
