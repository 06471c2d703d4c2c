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

package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cavakil/backoffice/internal/audit"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/telemetry"
)

// auditMiddleware records every request that resolved a session. Denied
// requests are recorded too, since the guard identified the caller before
// refusing them. Writes happen off the request path.
func auditMiddleware(
	store audit.Store,
	logger *slog.Logger,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			subject, _ := c.Get(guard.ContextKeySubject).(string)
			if subject == "" {
				return err
			}
			role, _ := c.Get(guard.ContextKeyRole).(string)

			id, idErr := uuid.NewV7()
			if idErr != nil {
				logger.Warn(
					"failed to generate audit id",
					slog.String("error", idErr.Error()),
				)
				return err
			}

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			ctx := c.Request().Context()
			entry := audit.Entry{
				ID:           id.String(),
				Timestamp:    start.UTC(),
				ActorID:      subject,
				Role:         role,
				Method:       c.Request().Method,
				Path:         c.Request().URL.Path,
				SourceIP:     c.RealIP(),
				ResponseCode: status,
				DurationMs:   time.Since(start).Milliseconds(),
				TraceID:      telemetry.TraceID(ctx),
			}

			go func(ctx context.Context) {
				if writeErr := store.Write(ctx, entry); writeErr != nil {
					logger.Warn(
						"failed to write audit entry",
						slog.String("error", writeErr.Error()),
						slog.String("entry_id", entry.ID),
					)
				}
			}(context.WithoutCancel(ctx))

			return err
		}
	}
}
