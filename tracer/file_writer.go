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
	"io"
	"os"

	"github.com/0xsoniclabs/statfeed/stochastic/host"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

// NewFileWriter creates a trace file. If compress is set, the trace is
// gzip-compressed.
func NewFileWriter(filename string, compress bool) (FileWriter, error) {
	_, err := os.Stat(filename)
	if err == nil {
		return nil, errors.Newf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	w := &fileWriter{closers: []io.Closer{file}}
	if compress {
		gzipWriter := gzip.NewWriter(file)
		w.buffer = bufio.NewWriter(gzipWriter)
		w.closers = append([]io.Closer{gzipWriter}, w.closers...)
	} else {
		w.buffer = bufio.NewWriter(file)
	}
	return w, nil
}

//go:generate mockgen -source file_writer.go -destination file_writer_mock.go -package tracer

// FileWriter writes host messages to a trace, one message per line.
type FileWriter interface {
	Write(msg host.Message) error
	Close() error
}

// WriteBuffer is a wrapper around necessary interfaces for writing data to a file for mocking purposes.
type WriteBuffer interface {
	io.Writer
	io.StringWriter
	Flush() error
}

type fileWriter struct {
	buffer  WriteBuffer
	closers []io.Closer
}

func (f *fileWriter) Write(msg host.Message) error {
	if _, err := f.buffer.WriteString(msg.String() + "\n"); err != nil {
		return errors.Wrapf(err, "error writing message %v to buffer", msg)
	}
	return nil
}

// Close flushes the buffer and closes the compressor and the file.
func (f *fileWriter) Close() error {
	err := f.buffer.Flush()
	if err != nil {
		err = errors.Wrap(err, "cannot flush buffer")
	}
	for _, c := range f.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}

// WriteFile writes all messages into a new trace file.
func WriteFile(filename string, msgs []host.Message, compress bool) (err error) {
	w, err := NewFileWriter(filename, compress)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()
	for _, msg := range msgs {
		if err = w.Write(msg); err != nil {
			return err
		}
	}
	return nil
}
