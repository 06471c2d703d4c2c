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

package health

import (
	"context"
	"errors"
	"fmt"
)

// ServiceChecker checks the stores the back office depends on. Nil checks
// are treated as passing.
type ServiceChecker struct {
	// NATSCheck verifies NATS connectivity.
	NATSCheck func() error
	// KVCheck verifies the KV buckets are accessible.
	KVCheck func() error
	// RedisCheck verifies the OTP store answers.
	RedisCheck func(ctx context.Context) error
}

// CheckHealth runs every check and joins the failures.
func (c *ServiceChecker) CheckHealth(
	ctx context.Context,
) error {
	var errs []error
	for name, err := range c.Components(ctx) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// Components runs every check and reports each result by name.
func (c *ServiceChecker) Components(
	ctx context.Context,
) map[string]error {
	out := map[string]error{
		"nats":  nil,
		"kv":    nil,
		"redis": nil,
	}
	if c.NATSCheck != nil {
		out["nats"] = c.NATSCheck()
	}
	if c.KVCheck != nil {
		out["kv"] = c.KVCheck()
	}
	if c.RedisCheck != nil {
		out["redis"] = c.RedisCheck(ctx)
	}

	return out
}
