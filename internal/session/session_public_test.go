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

package session_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/permission"
	"github.com/cavakil/backoffice/internal/session"
	"github.com/cavakil/backoffice/internal/testutil"
)

const signingKey = "session-test-signing-key"

// stubVerifier accepts exactly one code.
type stubVerifier struct {
	code  string
	err   error
	calls int
}

func (v *stubVerifier) Verify(
	_ context.Context,
	_ string,
	code string,
) (bool, error) {
	v.calls++
	if v.err != nil {
		return false, v.err
	}
	return code == v.code, nil
}

// racingStore simulates another request provisioning the same phone
// between lookup and create.
type racingStore struct {
	actor.Store

	winner  *actor.Actor
	lookups int
}

func (r *racingStore) GetByPhone(
	_ context.Context,
	_ string,
) (*actor.Actor, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, actor.ErrNotFound
	}
	return r.winner, nil
}

func (r *racingStore) Create(
	_ context.Context,
	_ *actor.Actor,
) error {
	return actor.ErrDuplicate
}

type SessionPublicTestSuite struct {
	suite.Suite

	ctx      context.Context
	now      time.Time
	store    *actor.KVStore
	verifier *stubVerifier
	tokens   *authtoken.Token
	issuer   *session.Issuer
}

func (s *SessionPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = actor.NewKVStore(slog.Default(), testutil.NewMemoryKV("actors"))
	s.verifier = &stubVerifier{code: "424242"}
	s.tokens = authtoken.New(
		slog.Default(),
		authtoken.WithClock(func() time.Time { return s.now }),
	)
	s.issuer = session.NewIssuer(slog.Default(), s.store, s.verifier, s.tokens, signingKey)
}

func (s *SessionPublicTestSuite) seed(
	email string,
	phone string,
	role permission.Role,
	secret string,
	perms permission.Map,
) *actor.Actor {
	a := &actor.Actor{
		Email:       email,
		Phone:       phone,
		Role:        role,
		Permissions: perms,
	}
	if secret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
		s.Require().NoError(err)
		a.PasswordHash = string(hash)
	}
	s.Require().NoError(s.store.Create(s.ctx, a))
	return a
}

func (s *SessionPublicTestSuite) TestAuthenticatePassword() {
	tests := []struct {
		name        string
		setup       func()
		email       string
		secret      string
		expectError bool
		validate    func(*session.Session)
	}{
		{
			name: "admin with correct password",
			setup: func() {
				s.seed("admin@example.com", "", permission.RoleAdmin, "hunter2", nil)
			},
			email:  "Admin@Example.com",
			secret: "hunter2",
			validate: func(sess *session.Session) {
				s.Equal(permission.RoleAdmin, sess.Claims.Role)
				s.Equal("admin@example.com", sess.Claims.Contact)
				s.Equal(s.now.Add(authtoken.ElevatedLifetime).Unix(), sess.ExpiresAt.Unix())
				s.Nil(sess.Claims.Permissions)
			},
		},
		{
			name: "sub-admin carries permission snapshot",
			setup: func() {
				s.seed("sub@example.com", "", permission.RoleSubAdmin, "hunter2", permission.Map{
					permission.ResourceEnquiries: {View: true, Edit: true},
				})
			},
			email:  "sub@example.com",
			secret: "hunter2",
			validate: func(sess *session.Session) {
				s.True(sess.Claims.Allow(permission.ResourceEnquiries, permission.ActionEdit))
				s.False(sess.Claims.Allow(permission.ResourceEnquiries, permission.ActionDelete))

				claims, err := s.tokens.Validate(sess.Token, signingKey)
				s.Require().NoError(err)
				s.Equal(permission.RoleSubAdmin, claims.Role)
			},
		},
		{
			name: "end user with correct password is rejected",
			setup: func() {
				s.seed("user@example.com", "9876543210", permission.RoleUser, "hunter2", nil)
			},
			email:       "user@example.com",
			secret:      "hunter2",
			expectError: true,
		},
		{
			name: "wrong password",
			setup: func() {
				s.seed("admin@example.com", "", permission.RoleAdmin, "hunter2", nil)
			},
			email:       "admin@example.com",
			secret:      "hunter3",
			expectError: true,
		},
		{
			name:        "unknown email",
			setup:       func() {},
			email:       "ghost@example.com",
			secret:      "hunter2",
			expectError: true,
		},
		{
			name: "admin without a password hash",
			setup: func() {
				s.seed("nohash@example.com", "", permission.RoleAdmin, "", nil)
			},
			email:       "nohash@example.com",
			secret:      "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			tt.setup()

			sess, err := s.issuer.AuthenticatePassword(s.ctx, tt.email, tt.secret)

			if tt.expectError {
				s.ErrorIs(err, session.ErrAuthentication)
				s.Equal("invalid credentials", err.Error())
				s.Nil(sess)
				return
			}

			s.Require().NoError(err)
			s.NotEmpty(sess.Token)
			tt.validate(sess)
		})
	}
}

func (s *SessionPublicTestSuite) TestAuthenticatePasswordStoreError() {
	kv := testutil.NewMemoryKV("actors")
	store := actor.NewKVStore(slog.Default(), kv)
	issuer := session.NewIssuer(slog.Default(), store, s.verifier, s.tokens, signingKey)

	a := &actor.Actor{Email: "admin@example.com", Role: permission.RoleAdmin}
	s.Require().NoError(store.Create(s.ctx, a))
	kv.GetErr["actor."+a.ID] = fmt.Errorf("timeout")

	sess, err := issuer.AuthenticatePassword(s.ctx, "admin@example.com", "x")

	s.Nil(sess)
	s.Error(err)
	s.NotErrorIs(err, session.ErrAuthentication)
}

func (s *SessionPublicTestSuite) TestAuthenticateOrProvision() {
	tests := []struct {
		name          string
		setup         func()
		phone         string
		code          string
		expectError   bool
		expectOutcome session.Outcome
	}{
		{
			name:          "unknown phone provisions a user",
			setup:         func() {},
			phone:         "9876543210",
			code:          "424242",
			expectOutcome: session.OutcomeProvisioned,
		},
		{
			name: "existing user signs in",
			setup: func() {
				s.seed("", "9876543210", permission.RoleUser, "", nil)
			},
			phone:         "9876543210",
			code:          "424242",
			expectOutcome: session.OutcomeExisting,
		},
		{
			name: "admin phone is rejected even with a valid code",
			setup: func() {
				s.seed("admin@example.com", "9876543210", permission.RoleAdmin, "hunter2", nil)
			},
			phone:       "9876543210",
			code:        "424242",
			expectError: true,
		},
		{
			name:        "wrong code",
			setup:       func() {},
			phone:       "9876543210",
			code:        "000000",
			expectError: true,
		},
		{
			name:        "malformed phone",
			setup:       func() {},
			phone:       "98765-4321",
			code:        "424242",
			expectError: true,
		},
		{
			name:        "short phone",
			setup:       func() {},
			phone:       "12345",
			code:        "424242",
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			tt.setup()

			result, err := s.issuer.AuthenticateOrProvision(s.ctx, tt.phone, tt.code)

			if tt.expectError {
				s.ErrorIs(err, session.ErrAuthentication)
				s.Nil(result)
				return
			}

			s.Require().NoError(err)
			s.Equal(tt.expectOutcome, result.Outcome)
			s.Equal(permission.RoleUser, result.Actor.Role)
			s.Equal(tt.phone, result.Session.Claims.Contact)
			s.Equal(result.Actor.ID, result.Session.Claims.Subject)
			s.Equal(
				s.now.Add(authtoken.ExtendedLifetime).Unix(),
				result.Session.ExpiresAt.Unix(),
			)

			stored, err := s.store.GetByPhone(s.ctx, tt.phone)
			s.Require().NoError(err)
			s.Equal(result.Actor.ID, stored.ID)
		})
	}
}

func (s *SessionPublicTestSuite) TestMalformedPhoneSkipsVerifier() {
	_, err := s.issuer.AuthenticateOrProvision(s.ctx, "abc", "424242")

	s.ErrorIs(err, session.ErrAuthentication)
	s.Equal(0, s.verifier.calls)
}

func (s *SessionPublicTestSuite) TestVerifierError() {
	s.verifier.err = fmt.Errorf("redis down")

	result, err := s.issuer.AuthenticateOrProvision(s.ctx, "9876543210", "424242")

	s.Nil(result)
	s.Error(err)
	s.NotErrorIs(err, session.ErrAuthentication)
	s.Contains(err.Error(), "verify code")
}

func (s *SessionPublicTestSuite) TestConcurrentFirstLogin() {
	tests := []struct {
		name        string
		winner      *actor.Actor
		expectError bool
	}{
		{
			name:   "winner is an end user",
			winner: &actor.Actor{ID: "winner", Phone: "9876543210", Role: permission.RoleUser},
		},
		{
			name:        "winner is administrative",
			winner:      &actor.Actor{ID: "winner", Phone: "9876543210", Role: permission.RoleAdmin},
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			store := &racingStore{winner: tt.winner}
			issuer := session.NewIssuer(slog.Default(), store, s.verifier, s.tokens, signingKey)

			result, err := issuer.AuthenticateOrProvision(s.ctx, "9876543210", "424242")

			s.Equal(2, store.lookups)
			if tt.expectError {
				s.ErrorIs(err, session.ErrAuthentication)
				return
			}
			s.Require().NoError(err)
			s.Equal(session.OutcomeExisting, result.Outcome)
			s.Equal("winner", result.Actor.ID)
		})
	}
}

func (s *SessionPublicTestSuite) TestDanglingPhoneIndexProvisions() {
	kv := testutil.NewMemoryKV("actors")
	_, err := kv.Put("phone.9876543210", []byte("deleted-actor"))
	s.Require().NoError(err)
	store := actor.NewKVStore(slog.Default(), kv)
	issuer := session.NewIssuer(slog.Default(), store, s.verifier, s.tokens, signingKey)

	result, err := issuer.AuthenticateOrProvision(s.ctx, "9876543210", "424242")

	s.Require().NoError(err)
	s.Equal(session.OutcomeProvisioned, result.Outcome)
	s.Equal(permission.RoleUser, result.Actor.Role)
	s.NotEqual("deleted-actor", result.Actor.ID)
}

func (s *SessionPublicTestSuite) TestHashPassword() {
	hash, err := session.HashPassword("hunter2")
	s.Require().NoError(err)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	_, err = session.HashPassword("")
	s.Error(err)
}

func TestSessionPublicTestSuite(t *testing.T) {
	suite.Run(t, new(SessionPublicTestSuite))
}
