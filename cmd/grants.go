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
	"fmt"
	"strings"

	"github.com/cavakil/backoffice/internal/permission"
)

// grantActionSep separates actions within one grant. Commas already split
// flag values.
const grantActionSep = "+"

// parseGrants parses "resource:action[+action]" grants into a permission
// map. Repeated resources accumulate.
func parseGrants(
	grants []string,
) (permission.Map, error) {
	if len(grants) == 0 {
		return nil, nil
	}

	perms := make(permission.Map, len(grants))
	for _, g := range grants {
		resPart, actPart, ok := strings.Cut(strings.TrimSpace(g), ":")
		if !ok || actPart == "" {
			return nil, fmt.Errorf("malformed grant %q: want resource:action", g)
		}

		res, err := permission.ParseResource(resPart)
		if err != nil {
			return nil, err
		}

		flags := perms[res]
		for _, a := range strings.Split(actPart, grantActionSep) {
			act, err := permission.ParseAction(a)
			if err != nil {
				return nil, err
			}
			switch act {
			case permission.ActionView:
				flags.View = true
			case permission.ActionAdd:
				flags.Add = true
			case permission.ActionEdit:
				flags.Edit = true
			case permission.ActionDelete:
				flags.Delete = true
			}
		}
		perms[res] = flags
	}

	return perms, nil
}
