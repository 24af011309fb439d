// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package tracer

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/0xsoniclabs/statfeed/stochastic/host"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

// gzipMagic are the first bytes of every gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// NewFileReader opens a message trace. Plain text and gzip-compressed traces
// are both accepted.
func NewFileReader(filename string) (FileReader, error) {
	stat, err := os.Stat(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not stat file: %s, does it exist?", filename)
	}
	if stat.IsDir() {
		return nil, errors.New("given path to trace file is a directory")
	}
	if stat.Size() == 0 {
		return nil, errors.New("given trace file is empty")
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open trace file: %s", filename)
	}
	r, err := newReader(file)
	if err != nil {
		return nil, errors.Join(errors.Wrapf(err, "could not read trace file: %s", filename), file.Close())
	}
	return r, nil
}

func newReader(file io.ReadCloser) (*fileReader, error) {
	buffered := bufio.NewReader(file)
	head, err := buffered.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	r := &fileReader{closers: []io.Closer{file}}
	if bytes.Equal(head, gzipMagic) {
		gzipReader, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, errors.Wrap(err, "could not create gzip reader")
		}
		r.scanner = bufio.NewScanner(gzipReader)
		r.closers = append([]io.Closer{gzipReader}, r.closers...)
	} else {
		r.scanner = bufio.NewScanner(buffered)
	}
	return r, nil
}

//go:generate mockgen -source file_reader.go -destination file_reader_mock.go -package tracer

// FileReader reads host messages from a trace, one message per line.
type FileReader interface {
	// Next returns the next message; io.EOF marks the end of the trace.
	Next() (host.Message, error)
	// Line returns the line number of the last message read.
	Line() int
	Close() error
}

type fileReader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
}

func (f *fileReader) Next() (host.Message, error) {
	for f.scanner.Scan() {
		f.line++
		text := strings.TrimSpace(f.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		msg, err := host.Parse(text)
		if err != nil {
			return host.Message{}, errors.Wrapf(err, "line %d", f.line)
		}
		return msg, nil
	}
	if err := f.scanner.Err(); err != nil {
		return host.Message{}, errors.Wrapf(err, "line %d", f.line)
	}
	return host.Message{}, io.EOF
}

func (f *fileReader) Line() int {
	return f.line
}

func (f *fileReader) Close() error {
	var err error
	for _, c := range f.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}
