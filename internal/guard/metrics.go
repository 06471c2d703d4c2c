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

package guard

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/cavakil/backoffice/internal/guard"

// Decision outcomes recorded on the guard.decisions counter.
const (
	outcomeAllow        = "allow"
	outcomeRedirect     = "redirect"
	outcomeUnauthorized = "unauthorized"
	outcomeForbidden    = "forbidden"
)

// recorder counts guard decisions. A nil recorder is a no-op.
type recorder struct {
	decisions metric.Int64Counter
}

func newRecorder() *recorder {
	counter, err := otel.Meter(meterName).Int64Counter(
		"guard.decisions",
		metric.WithDescription("Guard decisions by guard and outcome."),
	)
	if err != nil {
		otel.Handle(err)
		return nil
	}
	return &recorder{decisions: counter}
}

func (r *recorder) record(
	ctx context.Context,
	guard string,
	outcome string,
) {
	if r == nil {
		return
	}
	r.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("guard", guard),
		attribute.String("outcome", outcome),
	))
}
