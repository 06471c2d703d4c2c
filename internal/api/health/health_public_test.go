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

package health_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/cavakil/backoffice/internal/api/health"
)

type HealthPublicTestSuite struct {
	suite.Suite

	ctx context.Context
}

func (s *HealthPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *HealthPublicTestSuite) serve(
	checker health.Checker,
	path string,
) *httptest.ResponseRecorder {
	h := health.New(slog.Default(), checker, time.Now().Add(-time.Minute), "1.2.0")

	e := echo.New()
	e.GET("/health", h.GetHealth)
	e.GET("/health/ready", h.GetHealthReady)
	e.GET("/health/status", h.GetHealthStatus)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *HealthPublicTestSuite) TestCheckHealth() {
	tests := []struct {
		name    string
		checker *health.ServiceChecker
		errMsgs []string
	}{
		{
			name: "when all checks pass",
			checker: &health.ServiceChecker{
				NATSCheck:  func() error { return nil },
				KVCheck:    func() error { return nil },
				RedisCheck: func(context.Context) error { return nil },
			},
		},
		{
			name:    "when no checks are configured",
			checker: &health.ServiceChecker{},
		},
		{
			name: "when redis fails",
			checker: &health.ServiceChecker{
				RedisCheck: func(context.Context) error { return fmt.Errorf("connection refused") },
			},
			errMsgs: []string{"redis: connection refused"},
		},
		{
			name: "when nats and kv fail",
			checker: &health.ServiceChecker{
				NATSCheck: func() error { return fmt.Errorf("not connected") },
				KVCheck:   func() error { return fmt.Errorf("bucket missing") },
			},
			errMsgs: []string{"nats: not connected", "kv: bucket missing"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := tc.checker.CheckHealth(s.ctx)

			if len(tc.errMsgs) == 0 {
				s.NoError(err)
				return
			}
			for _, msg := range tc.errMsgs {
				s.ErrorContains(err, msg)
			}
		})
	}
}

func (s *HealthPublicTestSuite) TestGetHealth() {
	rec := s.serve(&health.ServiceChecker{}, "/health")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *HealthPublicTestSuite) TestGetHealthReady() {
	tests := []struct {
		name     string
		checker  *health.ServiceChecker
		wantCode int
		wantBody string
	}{
		{
			name:     "when ready",
			checker:  &health.ServiceChecker{},
			wantCode: http.StatusOK,
			wantBody: `{"status":"ready"}`,
		},
		{
			name: "when redis is down",
			checker: &health.ServiceChecker{
				RedisCheck: func(context.Context) error { return fmt.Errorf("dial tcp: refused") },
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"not_ready","error":"redis: dial tcp: refused"}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			rec := s.serve(tc.checker, "/health/ready")

			s.Equal(tc.wantCode, rec.Code)
			s.JSONEq(tc.wantBody, rec.Body.String())
		})
	}
}

func (s *HealthPublicTestSuite) TestGetHealthStatus() {
	tests := []struct {
		name         string
		checker      *health.ServiceChecker
		wantCode     int
		wantStatus   string
		wantDegraded []string
	}{
		{
			name:       "when all components are healthy",
			checker:    &health.ServiceChecker{},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "when kv is unavailable",
			checker: &health.ServiceChecker{
				KVCheck: func() error { return fmt.Errorf("bucket missing") },
			},
			wantCode:     http.StatusServiceUnavailable,
			wantStatus:   "degraded",
			wantDegraded: []string{"kv"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			rec := s.serve(tc.checker, "/health/status")

			s.Equal(tc.wantCode, rec.Code)
			var resp health.DetailedResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
			s.Equal(tc.wantStatus, resp.Status)
			s.Equal("1.2.0", resp.Version)
			s.Equal("1m0s", resp.Uptime)
			s.Len(resp.Components, 3)
			for _, name := range tc.wantDegraded {
				s.Equal("error", resp.Components[name].Status)
			}
		})
	}
}

func TestHealthPublicTestSuite(t *testing.T) {
	suite.Run(t, new(HealthPublicTestSuite))
}
