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

package cmd

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cavakil/backoffice/internal/permission"
)

type GrantsTestSuite struct {
	suite.Suite
}

func (s *GrantsTestSuite) TestParseGrants() {
	tests := []struct {
		name    string
		grants  []string
		want    permission.Map
		wantErr string
	}{
		{
			name:   "when empty",
			grants: nil,
			want:   nil,
		},
		{
			name:   "when single action",
			grants: []string{"blogs:view"},
			want:   permission.Map{permission.ResourceBlogs: {View: true}},
		},
		{
			name:   "when several actions and resources",
			grants: []string{"enquiries:view+edit", "tags:delete", "enquiries:add"},
			want: permission.Map{
				permission.ResourceEnquiries: {View: true, Add: true, Edit: true},
				permission.ResourceTags:      {Delete: true},
			},
		},
		{
			name:    "when missing action",
			grants:  []string{"blogs"},
			wantErr: "malformed grant",
		},
		{
			name:    "when unknown resource",
			grants:  []string{"widgets:view"},
			wantErr: "unknown resource",
		},
		{
			name:    "when unknown action",
			grants:  []string{"blogs:publish"},
			wantErr: "unknown action",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := parseGrants(tt.grants)
			if tt.wantErr != "" {
				s.Require().Error(err)
				s.Contains(err.Error(), tt.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func TestGrantsTestSuite(t *testing.T) {
	suite.Run(t, new(GrantsTestSuite))
}
