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

// Package auth serves the login, logout, and session endpoints.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/session"
)

// Authenticator exchanges credentials for sessions.
type Authenticator interface {
	AuthenticatePassword(
		ctx context.Context,
		email string,
		secret string,
	) (*session.Session, error)
	AuthenticateOrProvision(
		ctx context.Context,
		phone string,
		code string,
	) (*session.OTPResult, error)
}

// SessionResolver resolves the caller's current session.
type SessionResolver interface {
	Authenticate(c echo.Context) (*guard.Principal, error)
}

// Auth implements the authentication endpoints.
type Auth struct {
	logger   *slog.Logger
	issuer   Authenticator
	sessions SessionResolver
	cookies  guard.CookieConfig
}

// LoginRequest is the password credential for administrative actors.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPRequest is the one-time code credential for end users.
type OTPRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
	Code  string `json:"code"  validate:"required,numeric"`
}

// SessionResponse is returned after a successful login.
type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Subject   string          `json:"subject"`
	Role      permission.Role `json:"role"`
	// Outcome is set for OTP logins only.
	Outcome session.Outcome `json:"outcome,omitempty"`
}

// SnapshotResponse describes the current session for display code. The
// capability table is derived with the same predicate the server enforces.
type SnapshotResponse struct {
	Subject      string                                  `json:"subject"`
	Role         permission.Role                         `json:"role"`
	Contact      string                                  `json:"contact"`
	Permissions  permission.Map                          `json:"permissions,omitempty"`
	Capabilities map[permission.Resource]permission.Flags `json:"capabilities"`
	ExpiresAt    *time.Time                              `json:"expires_at,omitempty"`
}
