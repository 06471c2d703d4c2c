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

package permission_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cavakil/backoffice/internal/permission"
)

type PredicatePublicTestSuite struct {
	suite.Suite
}

func (s *PredicatePublicTestSuite) TestAllowAdminEverything() {
	grants := []permission.Map{
		nil,
		{},
		{permission.ResourceBlogs: {}},
	}

	for _, m := range grants {
		for _, res := range permission.AllResources {
			for _, act := range permission.AllActions {
				s.True(permission.Allow(permission.RoleAdmin, m, res, act),
					"admin must be allowed %s:%s", res, act)
			}
		}
	}
}

func (s *PredicatePublicTestSuite) TestAllowUserNothing() {
	everything := permission.Map{}
	for _, res := range permission.AllResources {
		everything[res] = permission.Flags{View: true, Add: true, Edit: true, Delete: true}
	}

	for _, res := range permission.AllResources {
		for _, act := range permission.AllActions {
			s.False(permission.Allow(permission.RoleUser, everything, res, act))
			s.False(permission.Allow(permission.Role(""), everything, res, act))
			s.False(permission.Allow(permission.Role("root"), everything, res, act))
		}
	}
}

func (s *PredicatePublicTestSuite) TestAllowSubAdmin() {
	grants := permission.Map{
		permission.ResourceEnquiries: {View: true, Edit: true, Delete: false},
	}

	tests := []struct {
		name     string
		m        permission.Map
		res      permission.Resource
		act      permission.Action
		expected bool
	}{
		{
			name:     "explicit true grants",
			m:        grants,
			res:      permission.ResourceEnquiries,
			act:      permission.ActionEdit,
			expected: true,
		},
		{
			name:     "explicit false denies",
			m:        grants,
			res:      permission.ResourceEnquiries,
			act:      permission.ActionDelete,
			expected: false,
		},
		{
			name:     "unset action denies",
			m:        grants,
			res:      permission.ResourceEnquiries,
			act:      permission.ActionAdd,
			expected: false,
		},
		{
			name:     "unlisted resource denies",
			m:        grants,
			res:      permission.ResourceBlogs,
			act:      permission.ActionView,
			expected: false,
		},
		{
			name:     "nil map denies",
			m:        nil,
			res:      permission.ResourceEnquiries,
			act:      permission.ActionView,
			expected: false,
		},
		{
			name: "unknown resource denies even when present in map",
			m: permission.Map{
				permission.Resource("secrets"): {View: true},
			},
			res:      permission.Resource("secrets"),
			act:      permission.ActionView,
			expected: false,
		},
		{
			name:     "unknown action denies",
			m:        grants,
			res:      permission.ResourceEnquiries,
			act:      permission.Action("publish"),
			expected: false,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			first := permission.Allow(permission.RoleSubAdmin, tt.m, tt.res, tt.act)
			second := permission.Allow(permission.RoleSubAdmin, tt.m, tt.res, tt.act)

			s.Equal(tt.expected, first)
			s.Equal(first, second)
		})
	}
}

func (s *PredicatePublicTestSuite) TestSnapshotCapabilities() {
	snap := permission.Snapshot{
		Role: permission.RoleSubAdmin,
		Permissions: permission.Map{
			permission.ResourceBlogs: {View: true, Add: true},
		},
	}

	caps := snap.Capabilities()

	s.Len(caps, len(permission.AllResources))
	s.Equal(permission.Flags{View: true, Add: true}, caps[permission.ResourceBlogs])
	s.Equal(permission.Flags{}, caps[permission.ResourceOrders])
	s.True(snap.Can(permission.ResourceBlogs, permission.ActionAdd))
	s.False(snap.Can(permission.ResourceBlogs, permission.ActionDelete))
}

func (s *PredicatePublicTestSuite) TestRepeatedEvaluationIsStable() {
	grants := permission.Map{
		permission.ResourceBlogs:  {View: true, Edit: true},
		permission.ResourceOrders: {Delete: true},
	}

	for _, role := range permission.AllRoles {
		s.Run(string(role), func() {
			for _, res := range permission.AllResources {
				for _, act := range permission.AllActions {
					first := permission.Allow(role, grants, res, act)
					second := permission.Allow(role, grants, res, act)
					s.Equal(first, second, "%s:%s", res, act)
				}
			}

			snap := permission.Snapshot{Role: role, Permissions: grants}
			s.Equal(snap.Capabilities(), snap.Capabilities())
		})
	}

	s.Equal(permission.Map{
		permission.ResourceBlogs:  {View: true, Edit: true},
		permission.ResourceOrders: {Delete: true},
	}, grants)
}

func (s *PredicatePublicTestSuite) TestNormalize() {
	m := permission.Map{
		permission.ResourceTags:        {View: true},
		permission.Resource("unknown"): {View: true},
	}

	normalized := m.Normalize()

	s.Len(normalized, 1)
	s.Contains(normalized, permission.ResourceTags)
}

func TestPredicatePublicTestSuite(t *testing.T) {
	suite.Run(t, new(PredicatePublicTestSuite))
}
