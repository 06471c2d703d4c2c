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

package permission

// Flags holds the four action grants for one resource.
type Flags struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// Has reports whether the flag for a is set. Unknown actions are false.
func (f Flags) Has(
	a Action,
) bool {
	switch a {
	case ActionView:
		return f.View
	case ActionAdd:
		return f.Add
	case ActionEdit:
		return f.Edit
	case ActionDelete:
		return f.Delete
	}
	return false
}

// Map is a sub-admin's per-resource grants. Missing resources grant nothing.
type Map map[Resource]Flags

// Allow is the one authorization predicate. Admins may do anything,
// sub-admins exactly what m grants, everyone else nothing.
func Allow(
	role Role,
	m Map,
	res Resource,
	act Action,
) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleSubAdmin:
		if !res.Valid() || !act.Valid() {
			return false
		}
		// Indexing a nil map yields the zero Flags.
		return m[res].Has(act)
	default:
		return false
	}
}

// Normalize drops entries for resources outside the catalog.
func (m Map) Normalize() Map {
	out := make(Map, len(m))
	for res, flags := range m {
		if res.Valid() {
			out[res] = flags
		}
	}
	return out
}

// Snapshot is the read-only role and permission view handed to display
// code. It is built once per request from verified session claims.
type Snapshot struct {
	Role        Role `json:"role"`
	Permissions Map  `json:"permissions,omitempty"`
}

// Can evaluates Allow against the snapshot.
func (s Snapshot) Can(
	res Resource,
	act Action,
) bool {
	return Allow(s.Role, s.Permissions, res, act)
}

// Capabilities expands the snapshot into a full resource by action table.
func (s Snapshot) Capabilities() map[Resource]Flags {
	table := make(map[Resource]Flags, len(AllResources))
	for _, res := range AllResources {
		table[res] = Flags{
			View:   s.Can(res, ActionView),
			Add:    s.Can(res, ActionAdd),
			Edit:   s.Can(res, ActionEdit),
			Delete: s.Can(res, ActionDelete),
		}
	}
	return table
}
