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

package content_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	apicontent "github.com/cavakil/backoffice/internal/api/content"
	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/content"
	"github.com/cavakil/backoffice/internal/guard"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/testutil"
)

const signingKey = "content-handler-test-key"

type ContentPublicTestSuite struct {
	suite.Suite

	ctx   context.Context
	kv    *testutil.MemoryKV
	store *content.KVStore
	e     *echo.Echo
}

func (s *ContentPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = testutil.NewMemoryKV("content")
	s.store = content.NewKVStore(slog.Default(), s.kv)
	s.build(false)
}

func (s *ContentPublicTestSuite) build(
	guardReads bool,
) {
	apiGuard := guard.NewAPI(
		slog.Default(),
		authtoken.New(slog.Default()),
		signingKey,
		guard.CookieConfig{Name: "cv_session"},
	)
	h := apicontent.New(slog.Default(), s.store, apiGuard, guardReads)

	s.e = echo.New()
	s.e.GET("/api/admin/:resource", h.GetDocuments)
	s.e.GET("/api/admin/:resource/:id", h.GetDocument)
	s.e.POST("/api/admin/:resource", h.PostDocument)
	s.e.PUT("/api/admin/:resource/:id", h.PutDocument)
	s.e.DELETE("/api/admin/:resource/:id", h.DeleteDocument)
}

func (s *ContentPublicTestSuite) seed(
	res permission.Resource,
	data string,
) *content.Document {
	doc := &content.Document{
		Resource:  res,
		Data:      json.RawMessage(data),
		CreatedBy: "seed",
	}
	s.Require().NoError(s.store.Create(s.ctx, doc))
	return doc
}

func (s *ContentPublicTestSuite) do(
	method string,
	path string,
	body string,
	token string,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func admin() string {
	return testutil.MintToken(signingKey, "admin-1", permission.RoleAdmin, nil)
}

func subAdmin(
	perms permission.Map,
) string {
	return testutil.MintToken(signingKey, "sub-1", permission.RoleSubAdmin, perms)
}

func user() string {
	return testutil.MintToken(signingKey, "user-1", permission.RoleUser, nil)
}

func (s *ContentPublicTestSuite) TestMutations() {
	enquiryEditor := permission.Map{
		permission.ResourceEnquiries: {View: true, Edit: true},
	}

	tests := []struct {
		name     string
		method   string
		path     func(doc *content.Document) string
		body     string
		token    string
		wantCode int
	}{
		{
			name:     "when admin creates a blog",
			method:   http.MethodPost,
			path:     func(*content.Document) string { return "/api/admin/blogs" },
			body:     `{"data":{"title":"GST basics"}}`,
			token:    admin(),
			wantCode: http.StatusCreated,
		},
		{
			name:     "when sub-admin without add creates an enquiry",
			method:   http.MethodPost,
			path:     func(*content.Document) string { return "/api/admin/enquiries" },
			body:     `{"data":{"name":"Ravi"}}`,
			token:    subAdmin(enquiryEditor),
			wantCode: http.StatusForbidden,
		},
		{
			name:   "when sub-admin with edit updates an enquiry",
			method: http.MethodPut,
			path: func(doc *content.Document) string {
				return "/api/admin/enquiries/" + doc.ID
			},
			body:     `{"data":{"name":"Ravi","status":"closed"}}`,
			token:    subAdmin(enquiryEditor),
			wantCode: http.StatusOK,
		},
		{
			name:   "when sub-admin without delete deletes an enquiry",
			method: http.MethodDelete,
			path: func(doc *content.Document) string {
				return "/api/admin/enquiries/" + doc.ID
			},
			token:    subAdmin(enquiryEditor),
			wantCode: http.StatusForbidden,
		},
		{
			name:   "when end user updates an enquiry",
			method: http.MethodPut,
			path: func(doc *content.Document) string {
				return "/api/admin/enquiries/" + doc.ID
			},
			body:     `{"data":{}}`,
			token:    user(),
			wantCode: http.StatusForbidden,
		},
		{
			name:   "when no session deletes an enquiry",
			method: http.MethodDelete,
			path: func(doc *content.Document) string {
				return "/api/admin/enquiries/" + doc.ID
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "when admin deletes an enquiry",
			method: http.MethodDelete,
			path: func(doc *content.Document) string {
				return "/api/admin/enquiries/" + doc.ID
			},
			token:    admin(),
			wantCode: http.StatusNoContent,
		},
		{
			name:   "when admin updates a missing document",
			method: http.MethodPut,
			path: func(*content.Document) string {
				return "/api/admin/enquiries/does-not-exist"
			},
			body:     `{"data":{}}`,
			token:    admin(),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "when admin posts without data",
			method:   http.MethodPost,
			path:     func(*content.Document) string { return "/api/admin/blogs" },
			body:     `{}`,
			token:    admin(),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "when unauthorized caller posts an invalid body the guard answers first",
			method:   http.MethodPost,
			path:     func(*content.Document) string { return "/api/admin/blogs" },
			body:     `{`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "when resource is outside the catalog",
			method:   http.MethodPost,
			path:     func(*content.Document) string { return "/api/admin/invoices" },
			body:     `{"data":{}}`,
			token:    admin(),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "when resource is users",
			method:   http.MethodPost,
			path:     func(*content.Document) string { return "/api/admin/users" },
			body:     `{"data":{}}`,
			token:    admin(),
			wantCode: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			doc := s.seed(permission.ResourceEnquiries, `{"name":"Ravi"}`)

			rec := s.do(tc.method, tc.path(doc), tc.body, tc.token)

			s.Equal(tc.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func (s *ContentPublicTestSuite) TestMutationAttribution() {
	doc := s.seed(permission.ResourceEnquiries, `{"name":"Ravi"}`)

	rec := s.do(
		http.MethodPut,
		"/api/admin/enquiries/"+doc.ID,
		`{"data":{"name":"Ravi K"}}`,
		subAdmin(permission.Map{permission.ResourceEnquiries: {Edit: true}}),
	)
	s.Require().Equal(http.StatusOK, rec.Code)

	got, err := s.store.Get(s.ctx, permission.ResourceEnquiries, doc.ID)
	s.Require().NoError(err)
	s.Equal("seed", got.CreatedBy)
	s.Equal("sub-1", got.UpdatedBy)
	s.JSONEq(`{"name":"Ravi K"}`, string(got.Data))
}

func (s *ContentPublicTestSuite) TestReads() {
	tests := []struct {
		name       string
		guardReads bool
		token      string
		wantCode   int
	}{
		{
			name:     "when reads are open any caller lists",
			wantCode: http.StatusOK,
		},
		{
			name:       "when reads are guarded anonymous caller is rejected",
			guardReads: true,
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "when reads are guarded sub-admin without view is rejected",
			guardReads: true,
			token:      subAdmin(permission.Map{permission.ResourceTags: {View: true}}),
			wantCode:   http.StatusForbidden,
		},
		{
			name:       "when reads are guarded sub-admin with view lists",
			guardReads: true,
			token:      subAdmin(permission.Map{permission.ResourceBlogs: {View: true}}),
			wantCode:   http.StatusOK,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.build(tc.guardReads)
			doc := s.seed(permission.ResourceBlogs, `{"title":"one"}`)

			list := s.do(http.MethodGet, "/api/admin/blogs", "", tc.token)
			get := s.do(http.MethodGet, "/api/admin/blogs/"+doc.ID, "", tc.token)

			s.Equal(tc.wantCode, list.Code)
			s.Equal(tc.wantCode, get.Code)
		})
	}
}

func (s *ContentPublicTestSuite) TestList() {
	for i := range 3 {
		s.seed(permission.ResourceTags, fmt.Sprintf(`{"n":%d}`, i))
	}
	s.seed(permission.ResourceBlogs, `{"n":99}`)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTotal int
		wantItems int
	}{
		{
			name:      "when no params returns all of the resource",
			wantCode:  http.StatusOK,
			wantTotal: 3,
			wantItems: 3,
		},
		{
			name:      "when paginated returns a page",
			query:     "?limit=2&offset=2",
			wantCode:  http.StatusOK,
			wantTotal: 3,
			wantItems: 1,
		},
		{
			name:      "when limit is zero uses the default",
			query:     "?limit=0",
			wantCode:  http.StatusOK,
			wantTotal: 3,
			wantItems: 3,
		},
		{
			name:     "when limit is too large",
			query:    "?limit=1000",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			rec := s.do(http.MethodGet, "/api/admin/tags"+tc.query, "", "")

			s.Equal(tc.wantCode, rec.Code)
			if tc.wantItems == 0 {
				return
			}
			var resp struct {
				TotalItems int                `json:"total_items"`
				Items      []content.Document `json:"items"`
			}
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
			s.Equal(tc.wantTotal, resp.TotalItems)
			s.Len(resp.Items, tc.wantItems)
		})
	}
}

func (s *ContentPublicTestSuite) TestStoreFailure() {
	s.kv.KeysErr = fmt.Errorf("nats: connection closed")

	rec := s.do(http.MethodGet, "/api/admin/tags", "", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":"internal error"}`, rec.Body.String())
}

func (s *ContentPublicTestSuite) TestGetMissing() {
	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{
			name:   "unknown id",
			method: http.MethodGet,
			path:   "/api/admin/tags/nope",
		},
		{
			name:   "id with characters outside the key alphabet",
			method: http.MethodGet,
			path:   "/api/admin/tags/bad*id",
		},
		{
			name:   "delete with characters outside the key alphabet",
			method: http.MethodDelete,
			path:   "/api/admin/tags/bad*id",
			token:  admin(),
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(tt.method, tt.path, "", tt.token)

			s.Equal(http.StatusNotFound, rec.Code)
		})
	}
}

func TestContentPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ContentPublicTestSuite))
}
