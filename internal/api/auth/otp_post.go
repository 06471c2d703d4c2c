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
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/api/common"
	"github.com/cavakil/backoffice/internal/session"
	"github.com/cavakil/backoffice/internal/validation"
)

// PostOTP authenticates an end user by phone and one-time code, creating
// the user on first login.
func (a *Auth) PostOTP(
	c echo.Context,
) error {
	var req OTPRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(c, "invalid request body")
	}
	if msg, ok := validation.Struct(req); !ok {
		return common.BadRequest(c, msg)
	}

	res, err := a.issuer.AuthenticateOrProvision(c.Request().Context(), req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, session.ErrAuthentication) {
			return common.Error(c, http.StatusUnauthorized, session.ErrAuthentication.Error())
		}

		a.logger.ErrorContext(
			c.Request().Context(),
			"otp login failed",
			slog.String("error", err.Error()),
		)
		return common.Internal(c)
	}

	a.setSessionCookie(c, res.Session)

	status := http.StatusOK
	if res.Outcome == session.OutcomeProvisioned {
		status = http.StatusCreated
	}

	return c.JSON(status, SessionResponse{
		Token:     res.Session.Token,
		ExpiresAt: res.Session.ExpiresAt,
		Subject:   res.Actor.ID,
		Role:      res.Actor.Role,
		Outcome:   res.Outcome,
	})
}
