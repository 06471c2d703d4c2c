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

// Package authtoken mints and verifies signed session tokens.
package authtoken

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/cavakil/backoffice/internal/permission"
)

// Issuer is written to the iss claim of every token.
const Issuer = "cavakil"

// Session lifetimes. Expiry is fixed at issuance and never extended.
const (
	// ElevatedLifetime applies to admin and sub-admin sessions.
	ElevatedLifetime = 30 * time.Minute
	// ExtendedLifetime applies to end-user sessions.
	ExtendedLifetime = 30 * 24 * time.Hour
)

// LifetimeFor returns the session lifetime for role.
func LifetimeFor(
	role permission.Role,
) time.Duration {
	if role.IsAdministrative() {
		return ElevatedLifetime
	}
	return ExtendedLifetime
}

// CustomClaims is the session payload. Subject carries the actor id.
type CustomClaims struct {
	Role permission.Role `json:"role"    validate:"required,oneof=admin sub-admin user"`
	// Contact is the phone or email the actor authenticated with.
	Contact string `json:"contact" validate:"required"`
	// Permissions is the sub-admin grant snapshot taken at issuance.
	Permissions permission.Map `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Snapshot returns the read-only role and permission view of the claims.
func (c *CustomClaims) Snapshot() permission.Snapshot {
	return permission.Snapshot{
		Role:        c.Role,
		Permissions: c.Permissions,
	}
}

// Allow evaluates the shared predicate against the claims.
func (c *CustomClaims) Allow(
	res permission.Resource,
	act permission.Action,
) bool {
	return permission.Allow(c.Role, c.Permissions, res, act)
}

// Token issues and validates session tokens.
type Token struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Token.
type Option func(*Token)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(
	now func() time.Time,
) Option {
	return func(t *Token) {
		t.now = now
	}
}

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	opts ...Option,
) *Token {
	t := &Token{
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}
