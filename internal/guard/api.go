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

package guard

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/permission"
)

// ErrorResponse is the JSON body written on denial.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Principal is the caller a request was authorized for.
type Principal struct {
	ID          string
	Role        permission.Role
	Contact     string
	Permissions permission.Map
}

// Snapshot returns the read-only permission view of the principal.
func (p *Principal) Snapshot() permission.Snapshot {
	return permission.Snapshot{
		Role:        p.Role,
		Permissions: p.Permissions,
	}
}

func principalFrom(
	claims *authtoken.CustomClaims,
) *Principal {
	return &Principal{
		ID:          claims.Subject,
		Role:        claims.Role,
		Contact:     claims.Contact,
		Permissions: claims.Permissions,
	}
}

// API checks a specific resource and action inside a handler, before the
// handler touches any data.
type API struct {
	verifier
	metrics *recorder
}

// NewAPI creates a new API guard.
func NewAPI(
	logger *slog.Logger,
	tokens TokenValidator,
	signingKey string,
	cookies CookieConfig,
) *API {
	return &API{
		verifier: verifier{
			logger:     logger,
			tokens:     tokens,
			signingKey: signingKey,
			cookies:    cookies,
		},
		metrics: newRecorder(),
	}
}

// Authenticate resolves the caller's session from the Authorization bearer
// header, else from the session cookies. It returns ErrUnauthorized when
// neither yields a valid token.
func (g *API) Authenticate(
	c echo.Context,
) (*Principal, error) {
	if claims, ok := ClaimsFrom(c); ok {
		return principalFrom(claims), nil
	}

	var (
		claims *authtoken.CustomClaims
		ok     bool
	)
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		claims, ok = g.verify(c, token, "authorization")
	} else {
		claims, ok = g.fromCookies(c)
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	setClaims(c, claims)
	return principalFrom(claims), nil
}

// Authorize authenticates the caller and evaluates the shared predicate for
// res and act.
func (g *API) Authorize(
	c echo.Context,
	res permission.Resource,
	act permission.Action,
) (*Principal, error) {
	p, err := g.Authenticate(c)
	if err != nil {
		g.metrics.record(c.Request().Context(), "api", outcomeUnauthorized)
		return nil, err
	}

	if !permission.Allow(p.Role, p.Permissions, res, act) {
		g.logger.InfoContext(
			c.Request().Context(),
			"api request forbidden",
			slog.String("subject", p.ID),
			slog.String("role", string(p.Role)),
			slog.String("resource", string(res)),
			slog.String("action", string(act)),
		)
		g.metrics.record(c.Request().Context(), "api", outcomeForbidden)
		return nil, ErrForbidden
	}

	g.metrics.record(c.Request().Context(), "api", outcomeAllow)
	return p, nil
}

// RequireRole authenticates the caller and requires one of roles.
func (g *API) RequireRole(
	c echo.Context,
	roles ...permission.Role,
) (*Principal, error) {
	p, err := g.Authenticate(c)
	if err != nil {
		g.metrics.record(c.Request().Context(), "api", outcomeUnauthorized)
		return nil, err
	}

	for _, r := range roles {
		if p.Role == r {
			g.metrics.record(c.Request().Context(), "api", outcomeAllow)
			return p, nil
		}
	}

	g.metrics.record(c.Request().Context(), "api", outcomeForbidden)
	return nil, ErrForbidden
}

// Deny writes the status-coded JSON response for a guard error. Errors
// other than the two denials are reported as 500 without detail.
func Deny(
	c echo.Context,
	err error,
) error {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrUnauthorized.Error()})
	case errors.Is(err, ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: ErrForbidden.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
