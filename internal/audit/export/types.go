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

// Package export streams audit log entries to an external sink.
package export

import (
	"context"
	"time"

	"github.com/cavakil/backoffice/internal/audit"
)

// Fetcher returns one page of entries, newest first, and the total count.
type Fetcher func(ctx context.Context, limit int, offset int) ([]audit.Entry, int, error)

// Exporter writes entries to a destination.
type Exporter interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, entry audit.Entry) error
	Close(ctx context.Context) error
}

// ProgressFunc is called after each batch.
type ProgressFunc func(exported int, total int)

// Options controls a Run.
type Options struct {
	// BatchSize is the page size requested from the Fetcher.
	BatchSize int
	// Since drops entries recorded before it. Zero exports everything.
	Since time.Time
	// Role keeps only entries made by actors holding this role.
	Role string
	// OnProgress is optional.
	OnProgress ProgressFunc
}

// Result summarizes a Run.
type Result struct {
	TotalEntries    int
	ExportedEntries int
	SkippedEntries  int
}
