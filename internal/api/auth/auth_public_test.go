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

package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/api/auth"
	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/session"
	"github.com/cavakil/backoffice/internal/testutil"
)

const signingKey = "auth-handler-test-key"

type codeVerifier struct {
	codes map[string]string
}

func (v *codeVerifier) Verify(
	_ context.Context,
	phone string,
	code string,
) (bool, error) {
	want, ok := v.codes[phone]
	if !ok || want != code {
		return false, nil
	}
	delete(v.codes, phone)
	return true, nil
}

type AuthPublicTestSuite struct {
	suite.Suite

	ctx      context.Context
	actors   *actor.KVStore
	verifier *codeVerifier
	cookies  guard.CookieConfig
	handler  *auth.Auth
	e        *echo.Echo
}

func (s *AuthPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.actors = actor.NewKVStore(slog.Default(), testutil.NewMemoryKV("actors"))
	s.verifier = &codeVerifier{codes: map[string]string{}}
	s.cookies = guard.CookieConfig{Name: "cv_session"}
	s.rebuild()
}

func (s *AuthPublicTestSuite) rebuild() {
	tokens := authtoken.New(slog.Default())
	issuer := session.NewIssuer(slog.Default(), s.actors, s.verifier, tokens, signingKey)
	apiGuard := guard.NewAPI(slog.Default(), tokens, signingKey, s.cookies)
	s.handler = auth.New(slog.Default(), issuer, apiGuard, s.cookies)

	s.e = echo.New()
	s.e.POST("/api/auth/login", s.handler.PostLogin)
	s.e.POST("/api/auth/otp", s.handler.PostOTP)
	s.e.POST("/api/auth/logout", s.handler.PostLogout)
	s.e.GET("/api/auth/session", s.handler.GetSession)
}

func (s *AuthPublicTestSuite) seedAdmin(
	role permission.Role,
	perms permission.Map,
) *actor.Actor {
	hash, err := session.HashPassword("correct horse")
	s.Require().NoError(err)

	a := &actor.Actor{
		Email:        "ops@cavakil.in",
		Role:         role,
		Permissions:  perms,
		PasswordHash: hash,
	}
	s.Require().NoError(s.actors.Create(s.ctx, a))
	return a
}

func (s *AuthPublicTestSuite) do(
	method string,
	path string,
	body string,
	cookies ...*http.Cookie,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *AuthPublicTestSuite) TestPostLogin() {
	tests := []struct {
		name       string
		role       permission.Role
		body       string
		wantCode   int
		wantCookie bool
		wantError  string
	}{
		{
			name:       "when admin credentials are valid sets cookie",
			role:       permission.RoleAdmin,
			body:       `{"email":"ops@cavakil.in","password":"correct horse"}`,
			wantCode:   http.StatusOK,
			wantCookie: true,
		},
		{
			name:       "when sub-admin credentials are valid sets cookie",
			role:       permission.RoleSubAdmin,
			body:       `{"email":"OPS@cavakil.in","password":"correct horse"}`,
			wantCode:   http.StatusOK,
			wantCookie: true,
		},
		{
			name:      "when password is wrong returns generic failure",
			role:      permission.RoleAdmin,
			body:      `{"email":"ops@cavakil.in","password":"wrong"}`,
			wantCode:  http.StatusUnauthorized,
			wantError: "invalid credentials",
		},
		{
			name:      "when email is unknown returns generic failure",
			role:      permission.RoleAdmin,
			body:      `{"email":"nobody@cavakil.in","password":"correct horse"}`,
			wantCode:  http.StatusUnauthorized,
			wantError: "invalid credentials",
		},
		{
			name:      "when actor is an end user returns generic failure",
			role:      permission.RoleUser,
			body:      `{"email":"ops@cavakil.in","password":"correct horse"}`,
			wantCode:  http.StatusUnauthorized,
			wantError: "invalid credentials",
		},
		{
			name:     "when email is malformed returns bad request",
			role:     permission.RoleAdmin,
			body:     `{"email":"ops","password":"correct horse"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "when body is not json returns bad request",
			role:     permission.RoleAdmin,
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			seeded := s.seedAdmin(tc.role, permission.Map{
				permission.ResourceBlogs: {View: true},
			})

			rec := s.do(http.MethodPost, "/api/auth/login", tc.body)

			s.Equal(tc.wantCode, rec.Code)
			cookies := rec.Result().Cookies()
			if !tc.wantCookie {
				s.Empty(cookies)
				if tc.wantError != "" {
					s.JSONEq(`{"error":"`+tc.wantError+`"}`, rec.Body.String())
				}
				return
			}

			var resp auth.SessionResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
			s.Equal(seeded.ID, resp.Subject)
			s.Equal(tc.role, resp.Role)
			s.Empty(resp.Outcome)

			s.Require().Len(cookies, 1)
			s.Equal("cv_session", cookies[0].Name)
			s.Equal(resp.Token, cookies[0].Value)
			s.True(cookies[0].HttpOnly)
			s.False(cookies[0].Secure)
			s.Equal(http.SameSiteLaxMode, cookies[0].SameSite)
			s.WithinDuration(resp.ExpiresAt, cookies[0].Expires, 1e9)
		})
	}
}

func (s *AuthPublicTestSuite) TestPostLoginProductionCookie() {
	s.cookies = guard.CookieConfig{Name: "cv_session", Production: true}
	s.rebuild()
	s.seedAdmin(permission.RoleAdmin, nil)

	rec := s.do(
		http.MethodPost,
		"/api/auth/login",
		`{"email":"ops@cavakil.in","password":"correct horse"}`,
	)

	s.Equal(http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("__Secure-cv_session", cookies[0].Name)
	s.True(cookies[0].Secure)
}

func (s *AuthPublicTestSuite) TestPostOTP() {
	tests := []struct {
		name        string
		setup       func()
		body        string
		wantCode    int
		wantOutcome session.Outcome
	}{
		{
			name: "when phone is new provisions an end user",
			setup: func() {
				s.verifier.codes["9876543210"] = "123456"
			},
			body:        `{"phone":"9876543210","code":"123456"}`,
			wantCode:    http.StatusCreated,
			wantOutcome: session.OutcomeProvisioned,
		},
		{
			name: "when phone belongs to an end user reuses it",
			setup: func() {
				s.Require().NoError(s.actors.Create(s.ctx, &actor.Actor{
					Phone: "9876543210",
					Role:  permission.RoleUser,
				}))
				s.verifier.codes["9876543210"] = "123456"
			},
			body:        `{"phone":"9876543210","code":"123456"}`,
			wantCode:    http.StatusOK,
			wantOutcome: session.OutcomeExisting,
		},
		{
			name: "when code is wrong rejects",
			setup: func() {
				s.verifier.codes["9876543210"] = "123456"
			},
			body:     `{"phone":"9876543210","code":"000000"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "when phone belongs to an administrator rejects",
			setup: func() {
				s.Require().NoError(s.actors.Create(s.ctx, &actor.Actor{
					Phone: "9876543210",
					Email: "ops@cavakil.in",
					Role:  permission.RoleAdmin,
				}))
				s.verifier.codes["9876543210"] = "123456"
			},
			body:     `{"phone":"9876543210","code":"123456"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "when phone is malformed returns bad request",
			setup:    func() {},
			body:     `{"phone":"98765","code":"123456"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "when code is not numeric returns bad request",
			setup:    func() {},
			body:     `{"phone":"9876543210","code":"abc"}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setup()

			rec := s.do(http.MethodPost, "/api/auth/otp", tc.body)

			s.Equal(tc.wantCode, rec.Code)
			if tc.wantOutcome == "" {
				s.Empty(rec.Result().Cookies())
				return
			}

			var resp auth.SessionResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
			s.Equal(tc.wantOutcome, resp.Outcome)
			s.Equal(permission.RoleUser, resp.Role)
			s.Require().Len(rec.Result().Cookies(), 1)
			s.WithinDuration(
				resp.ExpiresAt,
				rec.Result().Cookies()[0].Expires,
				1e9,
			)
		})
	}
}

func (s *AuthPublicTestSuite) TestPostLogout() {
	s.cookies = guard.CookieConfig{Name: "cv_session", Alternates: []string{"legacy"}}
	s.rebuild()

	rec := s.do(http.MethodPost, "/api/auth/logout", "")

	s.Equal(http.StatusNoContent, rec.Code)
	names := make([]string, 0)
	for _, c := range rec.Result().Cookies() {
		s.Empty(c.Value)
		s.Negative(c.MaxAge)
		names = append(names, c.Name)
	}
	s.Equal(s.cookies.Candidates(), names)
}

func (s *AuthPublicTestSuite) TestGetSession() {
	perms := permission.Map{
		permission.ResourceEnquiries: {View: true, Edit: true},
	}

	tests := []struct {
		name         string
		cookie       *http.Cookie
		bearer       string
		wantCode     int
		validateFunc func(auth.SnapshotResponse)
	}{
		{
			name: "when sub-admin cookie returns capability table",
			cookie: &http.Cookie{
				Name:  "cv_session",
				Value: testutil.MintToken(signingKey, "sub-1", permission.RoleSubAdmin, perms),
			},
			wantCode: http.StatusOK,
			validateFunc: func(r auth.SnapshotResponse) {
				s.Equal("sub-1", r.Subject)
				s.Equal(permission.RoleSubAdmin, r.Role)
				s.True(r.Capabilities[permission.ResourceEnquiries].Edit)
				s.False(r.Capabilities[permission.ResourceEnquiries].Delete)
				s.False(r.Capabilities[permission.ResourceBlogs].View)
				s.NotNil(r.ExpiresAt)
			},
		},
		{
			name:     "when admin bearer returns full capabilities",
			bearer:   testutil.MintToken(signingKey, "admin-1", permission.RoleAdmin, nil),
			wantCode: http.StatusOK,
			validateFunc: func(r auth.SnapshotResponse) {
				s.Empty(r.Permissions)
				for _, res := range permission.AllResources {
					s.True(r.Capabilities[res].Delete)
				}
			},
		},
		{
			name:     "when no session returns unauthorized",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "when token signed with another key returns unauthorized",
			bearer:   testutil.MintToken("other-key", "admin-1", permission.RoleAdmin, nil),
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			if tc.bearer != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tc.bearer)
			}
			rec := httptest.NewRecorder()

			s.e.ServeHTTP(rec, req)

			s.Equal(tc.wantCode, rec.Code)
			if tc.validateFunc != nil {
				var resp auth.SnapshotResponse
				s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
				tc.validateFunc(resp)
			}
		})
	}
}

func TestAuthPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AuthPublicTestSuite))
}
