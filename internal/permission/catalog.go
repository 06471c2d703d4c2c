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

// Package permission holds the resource/action catalog, the role enum and
// the single authorization predicate shared by every guard.
package permission

import "fmt"

// Resource is a protected administrative domain.
type Resource string

// Resource constants.
const (
	ResourceEnquiries      Resource = "enquiries"
	ResourceContacts       Resource = "contacts"
	ResourceServices       Resource = "services"
	ResourceBlogs          Resource = "blogs"
	ResourceCategories     Resource = "categories"
	ResourceTags           Resource = "tags"
	ResourceUsers          Resource = "users"
	ResourceTestimonials   Resource = "testimonials"
	ResourcePolicies       Resource = "policies"
	ResourceClientReviews  Resource = "client_reviews"
	ResourceSuccessStories Resource = "success_stories"
	ResourceMediaFeatures  Resource = "media_features"
	ResourceOrders         Resource = "orders"
	ResourceCallPlans      Resource = "call_plans"
)

// AllResources is the full, ordered set of known resources.
var AllResources = []Resource{
	ResourceEnquiries,
	ResourceContacts,
	ResourceServices,
	ResourceBlogs,
	ResourceCategories,
	ResourceTags,
	ResourceUsers,
	ResourceTestimonials,
	ResourcePolicies,
	ResourceClientReviews,
	ResourceSuccessStories,
	ResourceMediaFeatures,
	ResourceOrders,
	ResourceCallPlans,
}

// Action is an operation on a resource.
type Action string

// Action constants.
const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// AllActions is the full, ordered set of known actions.
var AllActions = []Action{
	ActionView,
	ActionAdd,
	ActionEdit,
	ActionDelete,
}

// Valid reports whether r is a member of the catalog.
func (r Resource) Valid() bool {
	for _, known := range AllResources {
		if r == known {
			return true
		}
	}
	return false
}

// Valid reports whether a is a member of the catalog.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionAdd, ActionEdit, ActionDelete:
		return true
	}
	return false
}

// ParseResource converts s to a Resource.
func ParseResource(
	s string,
) (Resource, error) {
	r := Resource(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown resource: %q", s)
	}
	return r, nil
}

// ParseAction converts s to an Action.
func ParseAction(
	s string,
) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action: %q", s)
	}
	return a, nil
}

// ResourceNames returns the catalog as plain strings, for flag help and
// error messages.
func ResourceNames() []string {
	names := make([]string, 0, len(AllResources))
	for _, r := range AllResources {
		names = append(names, string(r))
	}
	return names
}
