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

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/cavakil/backoffice/internal/actor"
)

// dummyHash is compared when no usable actor exists so a rejected lookup
// costs the same as a rejected password.
var dummyHash, _ = bcrypt.GenerateFromPassword(
	[]byte("cavakil-dummy-password"),
	bcrypt.DefaultCost,
)

// HashPassword returns a bcrypt hash for storage on an actor.
func HashPassword(
	secret string,
) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// AuthenticatePassword signs in an administrative actor by email and
// password. Missing actors, end users and bad secrets all return
// ErrAuthentication.
func (i *Issuer) AuthenticatePassword(
	ctx context.Context,
	email string,
	secret string,
) (*Session, error) {
	a, err := i.actors.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, actor.ErrNotFound) {
		return nil, fmt.Errorf("lookup actor: %w", err)
	}

	hash := dummyHash
	usable := a != nil && a.Role.IsAdministrative() && a.PasswordHash != ""
	if usable {
		hash = []byte(a.PasswordHash)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(secret)); err != nil || !usable {
		i.logger.Debug(
			"password authentication rejected",
			slog.String("email", actor.NormalizeEmail(email)),
		)
		return nil, ErrAuthentication
	}

	s, err := i.mint(ctx, a, a.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	i.logger.Info(
		"password authentication succeeded",
		slog.String("actor_id", a.ID),
		slog.String("role", string(a.Role)),
	)

	return s, nil
}
