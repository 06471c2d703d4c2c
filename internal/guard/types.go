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

// Package guard enforces sessions at two boundaries: a coarse route-prefix
// check before page handlers run, and a per-resource check inside mutating
// API handlers.
package guard

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/authtoken"
)

// Context keys set once a session has been verified.
const (
	ContextKeyClaims  = "auth.claims"
	ContextKeySubject = "auth.subject"
	ContextKeyRole    = "auth.role"
)

// Denial errors returned by the API guard.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")
)

// DefaultCookieName is the base session cookie name.
const DefaultCookieName = "cavakil_session"

// SecurePrefix is prepended to the session cookie name in production.
const SecurePrefix = "__Secure-"

// TokenValidator parses and validates session tokens.
type TokenValidator interface {
	Validate(
		tokenString string,
		signingKey string,
	) (*authtoken.CustomClaims, error)
}

// CookieConfig describes where a session token may be found.
type CookieConfig struct {
	// Name is the base cookie name, without the secure prefix.
	Name string
	// Production selects the secure-prefixed name as the expected one.
	Production bool
	// Alternates are extra names checked after both variants of Name.
	Alternates []string
}

// Expected returns the cookie name written for the current environment.
func (c CookieConfig) Expected() string {
	if c.Production {
		return SecurePrefix + c.base()
	}
	return c.base()
}

func (c CookieConfig) base() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

// Candidates returns every cookie name to try, expected name first.
func (c CookieConfig) Candidates() []string {
	other := SecurePrefix + c.base()
	if c.Production {
		other = c.base()
	}

	names := make([]string, 0, 2+2*len(c.Alternates))
	seen := make(map[string]struct{})
	add := func(n string) {
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}

	add(c.Expected())
	add(other)
	for _, alt := range c.Alternates {
		if c.Production {
			add(SecurePrefix + alt)
			add(alt)
		} else {
			add(alt)
			add(SecurePrefix + alt)
		}
	}

	return names
}

// verifier resolves and validates session tokens from requests.
type verifier struct {
	logger     *slog.Logger
	tokens     TokenValidator
	signingKey string
	cookies    CookieConfig
}

// fromCookies returns claims from the first cookie that holds a valid
// token. Invalid tokens are logged and skipped.
func (v *verifier) fromCookies(
	c echo.Context,
) (*authtoken.CustomClaims, bool) {
	for _, name := range v.cookies.Candidates() {
		cookie, err := c.Cookie(name)
		if err != nil || cookie.Value == "" {
			continue
		}

		if claims, ok := v.verify(c, cookie.Value, name); ok {
			return claims, true
		}
	}

	return nil, false
}

func (v *verifier) verify(
	c echo.Context,
	token string,
	source string,
) (*authtoken.CustomClaims, bool) {
	claims, err := v.tokens.Validate(token, v.signingKey)
	if err != nil {
		v.logger.DebugContext(
			c.Request().Context(),
			"session token rejected",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return claims, true
}

// setClaims exposes verified claims to downstream handlers.
func setClaims(
	c echo.Context,
	claims *authtoken.CustomClaims,
) {
	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeySubject, claims.Subject)
	c.Set(ContextKeyRole, string(claims.Role))
}

// ClaimsFrom returns the claims stored on the context by a guard.
func ClaimsFrom(
	c echo.Context,
) (*authtoken.CustomClaims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*authtoken.CustomClaims)
	return claims, ok && claims != nil
}
