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
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/cavakil/backoffice/internal/audit"
)

// ErrFileExists is returned by Open when the target exists and
// overwriting was not requested.
var ErrFileExists = errors.New("export file already exists")

var marshalJSON = json.Marshal

// FileExporter writes entries as JSON lines to a file on an afero.Fs.
type FileExporter struct {
	Path      string
	Overwrite bool

	fs     afero.Fs
	file   afero.File
	writer *bufio.Writer
}

// NewFileExporter creates an exporter for path on fs.
func NewFileExporter(
	fs afero.Fs,
	path string,
	overwrite bool,
) *FileExporter {
	return &FileExporter{
		Path:      path,
		Overwrite: overwrite,
		fs:        fs,
	}
}

// Open creates the target file. Audit exports may contain contact data,
// so the file is owner-readable only.
func (e *FileExporter) Open(
	_ context.Context,
) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !e.Overwrite {
		exists, err := afero.Exists(e.fs, e.Path)
		if err != nil {
			return fmt.Errorf("checking export file: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrFileExists, e.Path)
		}
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := e.fs.OpenFile(e.Path, flags, 0o600)
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}

	e.file = f
	e.writer = bufio.NewWriter(f)

	return nil
}

// Write appends one entry.
func (e *FileExporter) Write(
	_ context.Context,
	entry audit.Entry,
) error {
	if e.writer == nil {
		return fmt.Errorf("exporter not opened")
	}

	data, err := marshalJSON(entry)
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}

	if _, err := e.writer.Write(data); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	if err := e.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// Close flushes and closes the file.
func (e *FileExporter) Close(
	_ context.Context,
) error {
	if e.writer == nil {
		return fmt.Errorf("exporter not opened")
	}

	if err := e.writer.Flush(); err != nil {
		_ = e.file.Close()
		return fmt.Errorf("flushing writer: %w", err)
	}

	if err := e.file.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	return nil
}
