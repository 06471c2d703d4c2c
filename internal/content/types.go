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

// Package content stores the documents behind every administrative
// resource other than users.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cavakil/backoffice/internal/permission"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one record of a content resource. Data is stored as given.
type Document struct {
	ID        string              `json:"id"`
	Resource  permission.Resource `json:"resource"`
	Data      json.RawMessage     `json:"data"`
	CreatedBy string              `json:"created_by,omitempty"`
	UpdatedBy string              `json:"updated_by,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Store persists content documents.
type Store interface {
	Get(ctx context.Context, res permission.Resource, id string) (*Document, error)
	// List returns a page of documents, newest first, and the total count.
	List(ctx context.Context, res permission.Resource, limit int, offset int) ([]Document, int, error)
	Create(ctx context.Context, doc *Document) error
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, res permission.Resource, id string) error
}

// Managed reports whether res is served by this package. Users live in the
// actor store.
func Managed(
	res permission.Resource,
) bool {
	return res.Valid() && res != permission.ResourceUsers
}
