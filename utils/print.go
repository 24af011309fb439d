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

package utils

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Printer emits the output of a command to a destination.
//
//go:generate mockgen -source print.go -destination print_mock.go -package utils
type Printer interface {
	Print() error
	Close() error
}

// Printers fans a single print request out to several destinations.
type Printers struct {
	printers []Printer
}

func NewPrinters() *Printers {
	return &Printers{[]Printer{}}
}

func (ps *Printers) AddPrinter(p Printer) *Printers {
	ps.printers = append(ps.printers, p)
	return ps
}

// Len returns the number of registered printers.
func (ps *Printers) Len() int {
	return len(ps.printers)
}

// Print invokes all printers; a failing printer does not stop the others.
func (ps *Printers) Print() error {
	var err error
	for _, p := range ps.printers {
		err = errors.Join(err, p.Print())
	}
	return err
}

func (ps *Printers) Close() error {
	var err error
	for _, p := range ps.printers {
		err = errors.Join(err, p.Close())
	}
	return err
}

// PrinterToWriter writes one line produced by f to w.
type PrinterToWriter struct {
	w io.Writer
	f func() string
}

func NewPrinterToWriter(w io.Writer, f func() string) *PrinterToWriter {
	return &PrinterToWriter{w, f}
}

func (p *PrinterToWriter) Print() error {
	text := p.f()
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(p.w, text)
	return err
}

func (p *PrinterToWriter) Close() error {
	return nil
}

func (ps *Printers) AddPrinterToWriter(w io.Writer, f func() string) *Printers {
	return ps.AddPrinter(NewPrinterToWriter(w, f))
}

// PrinterToFile appends the lines produced by f to a file.
type PrinterToFile struct {
	filepath string
	f        func() string
}

func NewPrinterToFile(filepath string, f func() string) *PrinterToFile {
	return &PrinterToFile{filepath, f}
}

func (p *PrinterToFile) Print() (err error) {
	text := p.f()
	if text == "" {
		return nil
	}
	file, err := os.OpenFile(p.filepath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to print to file %s", p.filepath)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	_, err = file.WriteString(text + "\n")
	return err
}

func (p *PrinterToFile) Close() error {
	return nil
}

func (ps *Printers) AddPrinterToFile(filepath string, f func() string) *Printers {
	if filepath == "" {
		return ps
	}
	return ps.AddPrinter(NewPrinterToFile(filepath, f))
}

// PrinterToDb inserts the rows produced by f within a single transaction.
type PrinterToDb struct {
	db     *sql.DB
	insert string
	f      func() [][]any
}

func NewPrinterToDb(db *sql.DB, insert string, f func() [][]any) *PrinterToDb {
	return &PrinterToDb{db, insert, f}
}

// NewPrinterToSqlite3 opens a sqlite3 database, creates the target table and
// returns a printer inserting into it.
func NewPrinterToSqlite3(conn string, create string, insert string, f func() [][]any) (*PrinterToDb, error) {
	db, err := sql.Open("sqlite3", conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open connection to sqlite3 %s", conn)
	}
	pragmas := []string{
		create,
		"PRAGMA synchronous = OFF",
		"PRAGMA journal_mode = MEMORY",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, errors.Join(errors.Wrapf(err, "failed to initialise %s", conn), db.Close())
		}
	}
	return NewPrinterToDb(db, insert, f), nil
}

func (p *PrinterToDb) Print() error {
	return p.write(p.f())
}

func (p *PrinterToDb) write(rows [][]any) (err error) {
	if len(rows) == 0 {
		return nil
	}
	tx, err := p.db.Begin()
	if err != nil {
		return errors.Wrap(err, "unable to begin a transaction")
	}
	stmt, err := tx.Prepare(p.insert)
	if err != nil {
		return errors.Join(errors.Wrapf(err, "unable to prepare statement %s", p.insert), tx.Rollback())
	}
	defer func() {
		err = errors.Join(err, stmt.Close())
	}()
	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			return errors.Join(errors.Wrapf(err, "unable to insert %v", row), tx.Rollback())
		}
	}
	return tx.Commit()
}

func (p *PrinterToDb) Close() error {
	return p.db.Close()
}

// Bufferize collects rows in memory and writes them in batches of the given
// capacity. Remaining rows are written on Close.
func (p *PrinterToDb) Bufferize(capacity int) *PrinterToBuffer {
	return &PrinterToBuffer{
		og:       p,
		capacity: capacity,
		buffer:   make([][]any, 0, capacity),
	}
}

type PrinterToBuffer struct {
	og       *PrinterToDb
	capacity int
	buffer   [][]any
}

func (p *PrinterToBuffer) Print() error {
	p.buffer = append(p.buffer, p.og.f()...)
	if len(p.buffer) >= p.capacity {
		return p.Flush()
	}
	return nil
}

// Flush writes all buffered rows.
func (p *PrinterToBuffer) Flush() error {
	defer p.Reset()
	return p.og.write(p.buffer)
}

func (p *PrinterToBuffer) Reset() {
	p.buffer = p.buffer[:0]
}

func (p *PrinterToBuffer) Length() int {
	return len(p.buffer)
}

func (p *PrinterToBuffer) Close() error {
	return errors.Join(p.Flush(), p.og.Close())
}
