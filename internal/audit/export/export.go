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

package export

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 100

// Run pages through the fetcher and writes matching entries to the
// exporter. Entries arrive newest first, so paging stops at the first
// entry older than Options.Since.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	fetcher Fetcher,
	exporter Exporter,
	opts Options,
) (*Result, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := exporter.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening exporter: %w", err)
	}

	defer func() {
		if closeErr := exporter.Close(ctx); closeErr != nil {
			logger.Error("closing exporter", slog.String("error", closeErr.Error()))
		}
	}()

	result := &Result{}
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entries, total, err := fetcher(ctx, batchSize, offset)
		if err != nil {
			return result, fmt.Errorf("fetching entries at offset %d: %w", offset, err)
		}

		result.TotalEntries = total
		reachedCutoff := false

		for _, entry := range entries {
			if !opts.Since.IsZero() && entry.Timestamp.Before(opts.Since) {
				reachedCutoff = true
				break
			}
			if opts.Role != "" && entry.Role != opts.Role {
				result.SkippedEntries++
				continue
			}
			if err := exporter.Write(ctx, entry); err != nil {
				return result, fmt.Errorf("writing entry: %w", err)
			}
			result.ExportedEntries++
		}

		if opts.OnProgress != nil {
			opts.OnProgress(result.ExportedEntries, total)
		}

		offset += len(entries)
		if reachedCutoff || offset >= total || len(entries) == 0 {
			break
		}
	}

	logger.Debug(
		"audit export finished",
		slog.Int("exported", result.ExportedEntries),
		slog.Int("skipped", result.SkippedEntries),
		slog.Int("total", result.TotalEntries),
	)

	return result, nil
}
