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

// Package audit records authenticated requests to the administrative API.
package audit

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an audit entry does not exist.
var ErrNotFound = errors.New("audit entry not found")

// Entry represents a single audit log record.
type Entry struct {
	// ID is a time-ordered unique identifier.
	ID string `json:"id"`
	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`
	// ActorID is the session subject.
	ActorID string `json:"actor_id"`
	// Role is the session role at the time of the request.
	Role string `json:"role"`
	// Method is the HTTP method.
	Method string `json:"method"`
	// Path is the request URL path.
	Path string `json:"path"`
	// SourceIP is the client's IP address.
	SourceIP string `json:"source_ip"`
	// ResponseCode is the HTTP response status code.
	ResponseCode int `json:"response_code"`
	// DurationMs is the request processing time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
	// TraceID links the entry to the request trace, when tracing is on.
	TraceID string `json:"trace_id,omitempty"`
}

// Store persists audit entries.
type Store interface {
	Write(ctx context.Context, entry Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	// List returns a page of entries, newest first, and the total count.
	List(ctx context.Context, limit int, offset int) ([]Entry, int, error)
}
