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

// Package session authenticates credentials and mints session tokens.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/otp"
	"github.com/cavakil/backoffice/internal/permission"
)

// ErrAuthentication is the only failure callers see for a rejected
// credential. It never says which check failed.
var ErrAuthentication = errors.New("invalid credentials")

// Outcome tags how an OTP login resolved its actor.
type Outcome string

const (
	// OutcomeExisting means an end user with this phone already existed.
	OutcomeExisting Outcome = "existing"
	// OutcomeProvisioned means the login created the end user.
	OutcomeProvisioned Outcome = "provisioned"
)

// Session is a freshly minted token and its decoded claims.
type Session struct {
	Token     string                  `json:"token"`
	ExpiresAt time.Time               `json:"expires_at"`
	Claims    *authtoken.CustomClaims `json:"-"`
}

// OTPResult is returned from AuthenticateOrProvision.
type OTPResult struct {
	Outcome Outcome
	Actor   *actor.Actor
	Session *Session
}

// TokenGenerator mints signed tokens.
type TokenGenerator interface {
	Generate(
		signingKey string,
		subject string,
		role permission.Role,
		contact string,
		perms permission.Map,
	) (string, *authtoken.CustomClaims, error)
}

// Issuer authenticates both credential kinds.
type Issuer struct {
	logger     *slog.Logger
	actors     actor.Store
	verifier   otp.Verifier
	tokens     TokenGenerator
	signingKey string
}

// NewIssuer creates a new Issuer.
func NewIssuer(
	logger *slog.Logger,
	actors actor.Store,
	verifier otp.Verifier,
	tokens TokenGenerator,
	signingKey string,
) *Issuer {
	return &Issuer{
		logger:     logger,
		actors:     actors,
		verifier:   verifier,
		tokens:     tokens,
		signingKey: signingKey,
	}
}

// mint signs a session for a.
func (i *Issuer) mint(
	_ context.Context,
	a *actor.Actor,
	contact string,
) (*Session, error) {
	signed, claims, err := i.tokens.Generate(
		i.signingKey,
		a.ID,
		a.Role,
		contact,
		a.Permissions,
	)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
		Claims:    claims,
	}, nil
}
