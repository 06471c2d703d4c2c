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

// Package users serves management of actors: listing, creating,
// deleting, and editing sub-admin permissions.
package users

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
)

// Authorizer is the subset of the API guard used by user handlers.
type Authorizer interface {
	Authorize(
		c echo.Context,
		res permission.Resource,
		act permission.Action,
	) (*guard.Principal, error)
	RequireRole(
		c echo.Context,
		roles ...permission.Role,
	) (*guard.Principal, error)
}

// PasswordHasher derives a stored hash from a secret.
type PasswordHasher func(secret string) (string, error)

// Users implements the user management endpoints.
type Users struct {
	logger *slog.Logger
	store  actor.Store
	guard  Authorizer
	hash   PasswordHasher
}

// CreateRequest is the body for creating an actor. Administrative actors
// sign in by email and password; end users by phone.
type CreateRequest struct {
	Name        string          `json:"name"        validate:"omitempty,max=120"`
	Email       string          `json:"email"       validate:"omitempty,email"`
	Phone       string          `json:"phone"       validate:"omitempty,phone"`
	Role        permission.Role `json:"role"        validate:"required,oneof=admin sub-admin user"`
	Password    string          `json:"password"    validate:"omitempty,min=8"`
	Permissions permission.Map  `json:"permissions" validate:"omitempty,dive,keys,resource,endkeys"`
}

// PermissionsRequest replaces a sub-admin's permission map.
type PermissionsRequest struct {
	Permissions permission.Map `json:"permissions" validate:"required,dive,keys,resource,endkeys"`
}
