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

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/validation"
)

// AuthenticateOrProvision signs in an end user by phone and one-time code.
// A phone with no actor is provisioned as a new user. Administrative actors
// cannot use this path.
func (i *Issuer) AuthenticateOrProvision(
	ctx context.Context,
	phone string,
	code string,
) (*OTPResult, error) {
	if !validation.IsPhone(phone) {
		return nil, ErrAuthentication
	}

	ok, err := i.verifier.Verify(ctx, phone, code)
	if err != nil {
		return nil, fmt.Errorf("verify code: %w", err)
	}
	if !ok {
		i.logger.Debug("otp authentication rejected", slog.String("phone", phone))
		return nil, ErrAuthentication
	}

	a, outcome, err := i.resolveEndUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	s, err := i.mint(ctx, a, phone)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	i.logger.Info(
		"otp authentication succeeded",
		slog.String("actor_id", a.ID),
		slog.String("outcome", string(outcome)),
	)

	return &OTPResult{
		Outcome: outcome,
		Actor:   a,
		Session: s,
	}, nil
}

func (i *Issuer) resolveEndUser(
	ctx context.Context,
	phone string,
) (*actor.Actor, Outcome, error) {
	a, err := i.actors.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		if a.Role != permission.RoleUser {
			return nil, "", ErrAuthentication
		}
		return a, OutcomeExisting, nil
	case !errors.Is(err, actor.ErrNotFound):
		return nil, "", fmt.Errorf("lookup actor: %w", err)
	}

	a = &actor.Actor{
		Phone: phone,
		Role:  permission.RoleUser,
	}
	err = i.actors.Create(ctx, a)
	if err == nil {
		return a, OutcomeProvisioned, nil
	}
	if !errors.Is(err, actor.ErrDuplicate) {
		return nil, "", fmt.Errorf("provision actor: %w", err)
	}

	// Lost a concurrent first login; the winner's record is authoritative.
	a, err = i.actors.GetByPhone(ctx, phone)
	if err != nil {
		return nil, "", fmt.Errorf("lookup actor: %w", err)
	}
	if a.Role != permission.RoleUser {
		return nil, "", ErrAuthentication
	}

	return a, OutcomeExisting, nil
}
