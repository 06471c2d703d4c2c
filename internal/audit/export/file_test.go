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
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/cavakil/backoffice/internal/audit"
)

type FileInternalTestSuite struct {
	suite.Suite

	entry audit.Entry
}

func (s *FileInternalTestSuite) SetupTest() {
	s.entry = audit.Entry{
		ID:           "0190a8e4-5a1b-7c3d-9e8f-0123456789ab",
		Timestamp:    time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC),
		ActorID:      "actor-1",
		Role:         "admin",
		Method:       "PUT",
		Path:         "/api/admin/users/actor-2/permissions",
		SourceIP:     "127.0.0.1",
		ResponseCode: 200,
		DurationMs:   42,
	}
}

func (s *FileInternalTestSuite) TearDownTest() {
	marshalJSON = json.Marshal
}

func (s *FileInternalTestSuite) TestWriteMarshalError() {
	marshalJSON = func(any) ([]byte, error) {
		return nil, fmt.Errorf("boom")
	}

	e := &FileExporter{writer: bufio.NewWriter(&failWriter{})}
	err := e.Write(context.Background(), s.entry)
	s.Require().Error(err)
	s.Contains(err.Error(), "marshaling entry")
}

func (s *FileInternalTestSuite) TestWriteNewlineError() {
	data, err := json.Marshal(s.entry)
	s.Require().NoError(err)

	// Buffer sized to the payload: WriteByte must flush into failWriter.
	e := &FileExporter{writer: bufio.NewWriterSize(&failWriter{}, len(data))}

	err = e.Write(context.Background(), s.entry)
	s.Require().Error(err)
	s.Contains(err.Error(), "writing newline")
}

func (s *FileInternalTestSuite) TestCloseFlushError() {
	f, err := afero.NewMemMapFs().Create("/audit.jsonl")
	s.Require().NoError(err)

	e := &FileExporter{file: f, writer: bufio.NewWriter(&failWriter{})}
	_, _ = e.writer.WriteString("pending")

	err = e.Close(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "flushing writer")
}

func TestFileInternalTestSuite(t *testing.T) {
	suite.Run(t, new(FileInternalTestSuite))
}

type failWriter struct{}

func (w *failWriter) Write(_ []byte) (int, error) {
	return 0, fmt.Errorf("write failed")
}
