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

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/session"
)

// setSessionCookie writes the session under the environment's expected
// name. The cookie lives exactly as long as the token.
func (a *Auth) setSessionCookie(
	c echo.Context,
	s *session.Session,
) {
	name := a.cookies.Expected()
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   a.cookies.Production || strings.HasPrefix(name, guard.SecurePrefix),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookies expires every name a session could be read from.
func (a *Auth) clearSessionCookies(
	c echo.Context,
) {
	for _, name := range a.cookies.Candidates() {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   a.cookies.Production || strings.HasPrefix(name, guard.SecurePrefix),
			SameSite: http.SameSiteLaxMode,
		})
	}
}
