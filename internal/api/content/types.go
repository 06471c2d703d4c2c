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

// Package content serves CRUD endpoints for every managed content
// resource.
package content

import (
	"encoding/json"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/content"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
)

// Authorizer checks a resource and action for the caller.
type Authorizer interface {
	Authorize(
		c echo.Context,
		res permission.Resource,
		act permission.Action,
	) (*guard.Principal, error)
}

// Content implements the content endpoints.
type Content struct {
	logger     *slog.Logger
	store      content.Store
	guard      Authorizer
	guardReads bool
}

// DocumentRequest is the body of create and update requests.
type DocumentRequest struct {
	Data json.RawMessage `json:"data" validate:"required"`
}
