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

package export_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/cavakil/backoffice/internal/audit"
	"github.com/cavakil/backoffice/internal/audit/export"
)

type FilePublicTestSuite struct {
	suite.Suite

	ctx context.Context
	fs  afero.Fs
}

func (s *FilePublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fs = afero.NewMemMapFs()
}

func (s *FilePublicTestSuite) entry(
	actorID string,
) audit.Entry {
	return audit.Entry{
		ID:           "0190a8e4-5a1b-7c3d-9e8f-0123456789ab",
		Timestamp:    time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC),
		ActorID:      actorID,
		Role:         "sub-admin",
		Method:       "POST",
		Path:         "/api/admin/blogs",
		SourceIP:     "127.0.0.1",
		ResponseCode: 201,
		DurationMs:   7,
	}
}

func (s *FilePublicTestSuite) TestWritesJSONLines() {
	e := export.NewFileExporter(s.fs, "/exports/audit.jsonl", false)
	s.Require().NoError(s.fs.MkdirAll("/exports", 0o755))

	s.Require().NoError(e.Open(s.ctx))
	s.Require().NoError(e.Write(s.ctx, s.entry("alice")))
	s.Require().NoError(e.Write(s.ctx, s.entry("bob")))
	s.Require().NoError(e.Close(s.ctx))

	data, err := afero.ReadFile(s.fs, "/exports/audit.jsonl")
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	s.Require().Len(lines, 2)

	var got audit.Entry
	s.Require().NoError(json.Unmarshal([]byte(lines[1]), &got))
	s.Equal("bob", got.ActorID)
	s.Equal("/api/admin/blogs", got.Path)

	info, err := s.fs.Stat("/exports/audit.jsonl")
	s.Require().NoError(err)
	s.Equal("-rw-------", info.Mode().Perm().String())
}

func (s *FilePublicTestSuite) TestOpen() {
	tests := []struct {
		name         string
		setup        func() afero.Fs
		overwrite    bool
		validateFunc func(fs afero.Fs, err error)
	}{
		{
			name: "when file exists without overwrite returns ErrFileExists",
			setup: func() afero.Fs {
				fs := afero.NewMemMapFs()
				s.Require().NoError(afero.WriteFile(fs, "/audit.jsonl", []byte("old\n"), 0o600))
				return fs
			},
			validateFunc: func(fs afero.Fs, err error) {
				s.ErrorIs(err, export.ErrFileExists)
				data, readErr := afero.ReadFile(fs, "/audit.jsonl")
				s.Require().NoError(readErr)
				s.Equal("old\n", string(data))
			},
		},
		{
			name: "when file exists with overwrite truncates it",
			setup: func() afero.Fs {
				fs := afero.NewMemMapFs()
				s.Require().NoError(afero.WriteFile(fs, "/audit.jsonl", []byte("old\n"), 0o600))
				return fs
			},
			overwrite: true,
			validateFunc: func(fs afero.Fs, err error) {
				s.NoError(err)
				data, readErr := afero.ReadFile(fs, "/audit.jsonl")
				s.Require().NoError(readErr)
				s.Empty(data)
			},
		},
		{
			name: "when filesystem is read-only returns error",
			setup: func() afero.Fs {
				return afero.NewReadOnlyFs(afero.NewMemMapFs())
			},
			validateFunc: func(_ afero.Fs, err error) {
				s.Error(err)
				s.Contains(err.Error(), "opening export file")
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			fs := tt.setup()
			e := export.NewFileExporter(fs, "/audit.jsonl", tt.overwrite)
			err := e.Open(s.ctx)
			if err == nil {
				s.Require().NoError(e.Close(s.ctx))
			}
			tt.validateFunc(fs, err)
		})
	}
}

func (s *FilePublicTestSuite) TestNotOpened() {
	e := export.NewFileExporter(s.fs, "/audit.jsonl", false)

	err := e.Write(s.ctx, s.entry("alice"))
	s.Require().Error(err)
	s.Contains(err.Error(), "exporter not opened")

	err = e.Close(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "exporter not opened")
}

func TestFilePublicTestSuite(t *testing.T) {
	suite.Run(t, new(FilePublicTestSuite))
}
