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

package authtoken

import (
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v4"

	"github.com/cavakil/backoffice/internal/permission"
)

// Generate signs a session token for the actor. The permission snapshot is
// only embedded for sub-admins.
func (t *Token) Generate(
	signingKey string,
	subject string,
	role permission.Role,
	contact string,
	perms permission.Map,
) (string, *CustomClaims, error) {
	if signingKey == "" {
		return "", nil, fmt.Errorf("signing key is empty")
	}
	if !role.Valid() {
		return "", nil, fmt.Errorf("unsupported role: %s", role)
	}

	issuedAt := t.now()
	claims := &CustomClaims{
		Role:    role,
		Contact: contact,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(LifetimeFor(role))),
		},
	}
	if role == permission.RoleSubAdmin {
		claims.Permissions = perms.Normalize()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	t.logger.Debug(
		"issued session token",
		slog.String("subject", subject),
		slog.String("role", string(role)),
		slog.Time("expires_at", claims.ExpiresAt.Time),
	)

	return signed, claims, nil
}
