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

// Package actor stores the principals that can authenticate: admins,
// sub-admins and end users.
package actor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cavakil/backoffice/internal/permission"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound  = errors.New("actor not found")
	ErrDuplicate = errors.New("actor already exists")
)

// Actor is an authenticated principal.
type Actor struct {
	// ID is the opaque unique identifier.
	ID string `json:"id"`
	// Name is a display name.
	Name string `json:"name,omitempty"`
	// Email identifies administrative actors at password login.
	Email string `json:"email,omitempty"`
	// Phone identifies end users at OTP login.
	Phone string `json:"phone,omitempty"`
	// Role is exactly one of admin, sub-admin or user.
	Role permission.Role `json:"role"`
	// Permissions is only meaningful for sub-admins.
	Permissions permission.Map `json:"permissions,omitempty"`
	// PasswordHash is a bcrypt hash; empty for OTP-only actors.
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// View is the actor as exposed over the API, without credentials.
type View struct {
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Role        permission.Role `json:"role"`
	Permissions permission.Map  `json:"permissions,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// View strips credential material.
func (a *Actor) View() View {
	return View{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		Role:        a.Role,
		Permissions: a.Permissions,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Contact returns the identifier carried in session tokens.
func (a *Actor) Contact() string {
	if a.Phone != "" {
		return a.Phone
	}
	return a.Email
}

// NormalizeEmail lowercases and trims an email for lookups.
func NormalizeEmail(
	email string,
) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Store persists actors.
type Store interface {
	Get(ctx context.Context, id string) (*Actor, error)
	GetByEmail(ctx context.Context, email string) (*Actor, error)
	GetByPhone(ctx context.Context, phone string) (*Actor, error)
	// Create assigns an ID and timestamps, failing with ErrDuplicate when
	// the email or phone is already taken.
	Create(ctx context.Context, a *Actor) error
	Update(ctx context.Context, a *Actor) error
	Delete(ctx context.Context, id string) error
	// List returns a page of actors, newest first, and the total count.
	List(ctx context.Context, limit int, offset int) ([]Actor, int, error)
}
