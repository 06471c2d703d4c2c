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

import "fmt"

// Role is the single role an actor holds.
type Role string

// Role constants.
const (
	RoleAdmin    Role = "admin"
	RoleSubAdmin Role = "sub-admin"
	RoleUser     Role = "user"
)

// AllRoles lists every role, most privileged first.
var AllRoles = []Role{
	RoleAdmin,
	RoleSubAdmin,
	RoleUser,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSubAdmin, RoleUser:
		return true
	}
	return false
}

// IsAdministrative reports whether r may enter the administrative area.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSubAdmin
}

// ParseRole converts s to a Role.
func ParseRole(
	s string,
) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unsupported role: %s", s)
	}
	return r, nil
}
